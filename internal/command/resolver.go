package command

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/conduitiot/conduit-core/internal/catalog"
	"github.com/conduitiot/conduit-core/internal/device"
)

// ComponentResolver resolves a component instance and its owning device.
// Satisfied by device.Repository.
type ComponentResolver interface {
	GetComponent(ctx context.Context, accountID, cid string) (*device.Device, *device.Component, error)
}

// CatalogResolver resolves a component type to its command contract.
// Satisfied by catalog.Registry.
type CatalogResolver interface {
	GetEntry(ctx context.Context, id string) (*catalog.Entry, error)
}

// resolution bundles everything known about one target component.
type resolution struct {
	Device    *device.Device
	Component *device.Component
	Entry     *catalog.Entry
}

// resolveTarget resolves one component to its device and catalog entry.
// Not-found conditions are folded into ErrNotFound; store errors pass
// through unmodified.
func resolveTarget(ctx context.Context, components ComponentResolver, entries CatalogResolver, accountID, cid string) (*resolution, error) {
	dev, comp, err := components.GetComponent(ctx, accountID, cid)
	if err != nil {
		if errors.Is(err, device.ErrComponentNotFound) || errors.Is(err, device.ErrDeviceNotFound) {
			return nil, fmt.Errorf("%w: component %q", ErrNotFound, cid)
		}
		return nil, err
	}

	entry, err := entries.GetEntry(ctx, comp.Type)
	if err != nil {
		if errors.Is(err, catalog.ErrEntryNotFound) {
			return nil, fmt.Errorf("%w: component %q references unknown type %q", ErrNotFound, cid, comp.Type)
		}
		return nil, err
	}

	return &resolution{Device: dev, Component: comp, Entry: entry}, nil
}

// resolveAll resolves every distinct component ID concurrently and joins
// the results. One lookup per distinct component; the lookups are
// independent, so the only synchronization is the join.
//
// Any failure cancels the remaining lookups and fails the whole batch —
// this is the direct path's all-or-nothing resolution step.
func resolveAll(ctx context.Context, components ComponentResolver, entries CatalogResolver, accountID string, cids []string) (map[string]*resolution, error) {
	distinct := distinctStrings(cids)
	results := make([]*resolution, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	for i, cid := range distinct {
		i, cid := i, cid
		g.Go(func() error {
			res, err := resolveTarget(gctx, components, entries, accountID, cid)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolutions := make(map[string]*resolution, len(distinct))
	for i, cid := range distinct {
		resolutions[cid] = results[i]
	}
	return resolutions, nil
}

// distinctStrings returns the unique values preserving first-appearance order.
func distinctStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// buildMessage assembles the outbound message for one resolved component.
func buildMessage(accountID string, res *resolution, params []Parameter) *Message {
	return &Message{
		Type: MessageTypeCommand,
		Content: MessageContent{
			DomainID:    accountID,
			DeviceID:    res.Device.ID,
			GatewayID:   res.Device.GatewayID,
			ComponentID: res.Component.CID,
			Command:     res.Entry.Command.Name,
			Params:      params,
		},
	}
}
