package ideas

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BoltRepo stores ideas in an embedded BoltDB file, one bucket per
// collection, keyed by the ObjectID hex. Keys sort by creation time.
type BoltRepo struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBoltRepo opens (or creates) the database at path and ensures the bucket exists.
func OpenBoltRepo(path, bucket string) (*BoltRepo, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	name := []byte(bucket)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return &BoltRepo{db: db, bucket: name}, nil
}

// Close releases the database file lock.
func (r *BoltRepo) Close() error {
	return r.db.Close()
}

func (r *BoltRepo) Insert(ctx context.Context, idea Idea) (InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return InsertResult{}, err
	}
	idea = idea.normalized()
	idea.StoreID = primitive.NewObjectID()

	data, err := json.Marshal(idea)
	if err != nil {
		return InsertResult{}, fmt.Errorf("encode idea: %w", err)
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Put([]byte(idea.StoreID.Hex()), data)
	})
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert idea: %w", err)
	}
	return InsertResult{Acknowledged: true, InsertedID: idea.StoreID}, nil
}

func (r *BoltRepo) FindByID(ctx context.Context, id primitive.ObjectID) (Idea, error) {
	if err := ctx.Err(); err != nil {
		return Idea{}, err
	}
	var idea Idea
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(r.bucket).Get([]byte(id.Hex()))
		if v == nil {
			return ErrNotFound
		}
		return decodeJSON(v, &idea)
	})
	if err != nil {
		return Idea{}, err
	}
	return idea.normalized(), nil
}

func (r *BoltRepo) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []Summary{}
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).ForEach(func(k, v []byte) error {
			var idea Idea
			if err := decodeJSON(v, &idea); err != nil {
				return fmt.Errorf("decode idea %s: %w", k, err)
			}
			out = append(out, idea.summary())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BoltRepo) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(r.bucket) == nil {
			return fmt.Errorf("bucket %s missing", r.bucket)
		}
		return nil
	})
}
