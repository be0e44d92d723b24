package assembly

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/gekko3d/assembly"

// Metrics uses the global OTel meter, which is a no-op until the host installs
// a provider. A nil *Metrics records nothing.
type Metrics struct {
	snapsCommitted metric.Int64Counter
	dropsRejected  metric.Int64Counter
	itemsPromoted  metric.Int64Counter
	spawnsRejected metric.Int64Counter
	staleAccess    metric.Int64Counter
}

func NewMetrics() (*Metrics, error) {
	m := otel.Meter(instrumentationName)
	out := &Metrics{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&out.snapsCommitted, "assembly.snaps.committed", "Drops that matched a zone and started a snap"},
		{&out.dropsRejected, "assembly.drops.rejected", "Drops without a committable zone"},
		{&out.itemsPromoted, "assembly.items.promoted", "Ghost items replaced by solids"},
		{&out.spawnsRejected, "assembly.spawns.rejected", "Palette spawns refused"},
		{&out.staleAccess, "assembly.stale_access", "Operations skipped on disposed scene nodes"},
	}
	for _, c := range counters {
		counter, err := m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}
	return out, nil
}

func (m *Metrics) add(c metric.Int64Counter, attrs ...attribute.KeyValue) {
	if m == nil || c == nil {
		return
	}
	c.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) SnapCommitted(componentType string) {
	if m == nil {
		return
	}
	m.add(m.snapsCommitted, attribute.String("component_type", componentType))
}

func (m *Metrics) DropRejected(componentType string) {
	if m == nil {
		return
	}
	m.add(m.dropsRejected, attribute.String("component_type", componentType))
}

func (m *Metrics) ItemPromoted(itemIndex int) {
	if m == nil {
		return
	}
	m.add(m.itemsPromoted, attribute.Int("item_index", itemIndex))
}

func (m *Metrics) SpawnRejected(reason string) {
	if m == nil {
		return
	}
	m.add(m.spawnsRejected, attribute.String("reason", reason))
}

func (m *Metrics) StaleAccess(op string) {
	if m == nil {
		return
	}
	m.add(m.staleAccess, attribute.String("op", op))
}
