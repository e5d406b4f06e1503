package command

import (
	"errors"
	"testing"

	"github.com/conduitiot/conduit-core/internal/catalog"
)

func contractEntry(t *testing.T) *catalog.Entry {
	t.Helper()

	entry := &catalog.Entry{
		ID:       "thermostat.v2",
		DataType: catalog.DataTypeNumber,
		Command: catalog.Command{
			Name: "cmd_thermostat",
			Parameters: []catalog.ParameterSpec{
				{Name: "setpoint", Values: "50-60"},
				{Name: "mode", Values: "heat,cool,auto"},
				{Name: "action", Values: "reset"},
			},
		},
	}
	entry.ParseSpecs()
	return entry
}

func TestValidateCommand(t *testing.T) {
	entry := contractEntry(t)

	tests := []struct {
		name   string
		params []Parameter
		ok     bool
	}{
		{"range in bounds", []Parameter{{Name: "setpoint", Value: "55"}}, true},
		{"range lower bound inclusive", []Parameter{{Name: "setpoint", Value: "50"}}, true},
		{"range upper bound inclusive", []Parameter{{Name: "setpoint", Value: "60"}}, true},
		{"range above", []Parameter{{Name: "setpoint", Value: "61"}}, false},
		{"range non-numeric", []Parameter{{Name: "setpoint", Value: "warm"}}, false},
		{"enum member", []Parameter{{Name: "mode", Value: "cool"}}, true},
		{"enum non-member", []Parameter{{Name: "mode", Value: "maybe"}}, false},
		{"sentinel match", []Parameter{{Name: "action", Value: "reset"}}, true},
		{"sentinel mismatch", []Parameter{{Name: "action", Value: "reboot"}}, false},
		{"unknown parameter", []Parameter{{Name: "fan", Value: "high"}}, false},
		{"second of two invalid", []Parameter{
			{Name: "setpoint", Value: "55"},
			{Name: "mode", Value: "maybe"},
		}, false},
		{"all valid", []Parameter{
			{Name: "setpoint", Value: "55"},
			{Name: "mode", Value: "auto"},
		}, true},
		{"no parameters", nil, true},
	}

	for _, tt := range tests {
		err := ValidateCommand(entry, tt.params)
		if tt.ok && err != nil {
			t.Errorf("%s: ValidateCommand() error = %v, want nil", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidValue) {
			t.Errorf("%s: ValidateCommand() error = %v, want ErrInvalidValue", tt.name, err)
		}
	}
}

func TestMergeRequestsPreservesOrder(t *testing.T) {
	merged := mergeRequests([]Request{
		{ComponentID: "b", Parameters: []Parameter{{Name: "x", Value: "1"}}},
		{ComponentID: "a", Parameters: []Parameter{{Name: "y", Value: "2"}}},
		{ComponentID: "b", Parameters: []Parameter{{Name: "x", Value: "3"}}},
	})

	if len(merged) != 2 {
		t.Fatalf("merged = %d, want 2", len(merged))
	}
	if merged[0].ComponentID != "b" || merged[1].ComponentID != "a" {
		t.Errorf("order = %s, %s; want b, a (first appearance)", merged[0].ComponentID, merged[1].ComponentID)
	}
	if len(merged[0].Parameters) != 2 {
		t.Fatalf("b params = %d, want 2", len(merged[0].Parameters))
	}
	if merged[0].Parameters[0].Value != "1" || merged[0].Parameters[1].Value != "3" {
		t.Errorf("b params = %+v, want request order 1 then 3", merged[0].Parameters)
	}
}
