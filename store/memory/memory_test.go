package memory_test

import (
	"testing"

	"github.com/demole/governor/store"
	"github.com/demole/governor/store/memory"
	"github.com/demole/governor/store/storetest"
)

func TestStore(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(*testing.T) store.Store {
		return memory.New()
	})
}

func TestOpen(t *testing.T) {
	t.Parallel()

	s, err := store.Open(store.BackendMemory, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*memory.Store); !ok {
		t.Fatalf("unexpected store type %T", s)
	}
}
