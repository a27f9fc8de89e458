// Package checkpoint stores the state of a long-running error-rate
// estimation in a bolt database so the driver can resume it.
package checkpoint

import (
	"encoding/json"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// bucket is the bucket name for all estimation state.
var bucket = []byte("main")

// State stores the resumable part of an estimation run.
type State struct {
	SequencingErrorRate float64
	Iteration           int
	Final               bool
}

// Save serializes the state into the database under the given key.
func Save(db *bolt.DB, key []byte, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		log.Error("Error serializing checkpoint", err)
		return err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
	if err != nil {
		log.Error("Error saving checkpoint", err)
	}
	return err
}

// Load reads the state stored under the given key; it returns nil if
// no state was saved.
func Load(db *bolt.DB, key []byte) (*State, error) {
	var data []byte
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		v := b.Get(key)
		if v != nil {
			data = append(data, v...)
		}
		return nil
	})
	if err != nil || data == nil {
		return nil, err
	}
	var state *State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state != nil {
		if state.Final {
			log.Noticef("Found finished estimation checkpoint (iter=%v, e=%v)", state.Iteration, state.SequencingErrorRate)
		} else {
			log.Noticef("Found unfinished estimation checkpoint (iter=%v, e=%v)", state.Iteration, state.SequencingErrorRate)
		}
	}
	return state, nil
}
