package memory

import (
	"sync"
	"testing"

	"github.com/hupe1980/uipilot/core"
)

func record(step int) core.StepRecord {
	return core.NewStepRecord(step, 0, "app", core.StatusContinue)
}

func TestMemory_AddAndRecent(t *testing.T) {
	m := NewMemory(0)
	for i := 1; i <= 5; i++ {
		m.Add(record(i))
	}
	if m.Len() != 5 {
		t.Fatalf("expected 5 records, got %d", m.Len())
	}
	recent := m.Recent(2)
	if len(recent) != 2 || recent[0].Step != 4 || recent[1].Step != 5 {
		t.Fatalf("unexpected recent window %+v", recent)
	}
	all := m.All()
	if len(all) != 5 || all[0].Step != 1 {
		t.Fatalf("unexpected full view %+v", all)
	}
}

func TestMemory_BoundedEviction(t *testing.T) {
	m := NewMemory(3)
	for i := 1; i <= 5; i++ {
		m.Add(record(i))
	}
	if m.Len() != 3 {
		t.Fatalf("expected limit to hold, got %d", m.Len())
	}
	all := m.All()
	if all[0].Step != 3 || all[2].Step != 5 {
		t.Fatalf("expected oldest entries evicted, got %+v", all)
	}
}

func TestMemory_LastAndClear(t *testing.T) {
	m := NewMemory(0)
	if _, ok := m.Last(); ok {
		t.Fatal("expected empty memory")
	}
	m.Add(record(1))
	m.Add(record(2))
	last, ok := m.Last()
	if !ok || last.Step != 2 {
		t.Fatalf("unexpected last record %+v", last)
	}
	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("expected cleared memory, got %d", m.Len())
	}
}

func TestMemory_CopyIsolation(t *testing.T) {
	m := NewMemory(0)
	m.Add(record(1))
	view := m.All()
	view[0].Agent = "mutated"
	if fresh := m.All(); fresh[0].Agent != "app" {
		t.Fatalf("mutation leaked into memory: %+v", fresh[0])
	}
}

func TestMemory_Concurrency(t *testing.T) {
	m := NewMemory(16)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Add(record(i))
			_ = m.Recent(4)
			_, _ = m.Last()
		}()
	}
	wg.Wait()
	if m.Len() != 16 {
		t.Fatalf("expected bounded length 16, got %d", m.Len())
	}
}
