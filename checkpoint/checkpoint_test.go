package checkpoint

import (
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"
)

func TestSaveLoad(tst *testing.T) {
	db, err := bolt.Open(filepath.Join(tst.TempDir(), "em.db"), 0666, nil)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	defer db.Close()

	key := []byte("em")
	state := &State{SequencingErrorRate: 0.0123, Iteration: 7, Final: false}
	if err := Save(db, key, state); err != nil {
		tst.Fatal("Error: ", err)
	}

	loaded, err := Load(db, key)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if loaded == nil || *loaded != *state {
		tst.Error("Expected ", state, ", got", loaded)
	}
}

func TestLoadMissing(tst *testing.T) {
	db, err := bolt.Open(filepath.Join(tst.TempDir(), "em.db"), 0666, nil)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	defer db.Close()

	loaded, err := Load(db, []byte("missing"))
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if loaded != nil {
		tst.Error("Expected no state, got", loaded)
	}
}
