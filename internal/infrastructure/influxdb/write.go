package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteActuation records a dispatched actuation for a device component.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Tags carry the low-cardinality identifiers; the command name and
// parameter count are stored as fields.
//
// Example:
//
//	client.WriteActuation("dev-42", "cmp-7", "cmd_actuator1", 2, "mqtt")
func (c *Client) WriteActuation(deviceID, componentID, command string, paramCount int, transport string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"actuations",
		map[string]string{
			"device_id":    deviceID,
			"component_id": componentID,
			"transport":    transport,
		},
		map[string]interface{}{
			"command":     command,
			"param_count": paramCount,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDispatchOutcome records a per-request dispatch result for
// monitoring dashboards (accepted vs rejected commands).
func (c *Client) WriteDispatchOutcome(accountID string, accepted bool, commandCount int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"dispatch_outcomes",
		map[string]string{
			"account_id": accountID,
			"accepted":   boolTag(accepted),
		},
		map[string]interface{}{
			"command_count": commandCount,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
