package ideas

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PGRepo stores ideas as JSONB documents in Postgres. Ids are ObjectIDs
// generated on insert so they look the same as on the MongoDB backend.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Insert(ctx context.Context, idea Idea) (InsertResult, error) {
	idea = idea.normalized()
	idea.StoreID = primitive.NewObjectID()

	doc, err := documentJSON(idea)
	if err != nil {
		return InsertResult{}, err
	}

	const query = `
INSERT INTO verified_ideas (id, doc, created_at)
VALUES ($1, $2, $3)`
	if _, err := r.DB.ExecContext(ctx, query, idea.StoreID.Hex(), string(doc), idea.CreatedAt); err != nil {
		return InsertResult{}, fmt.Errorf("insert idea: %w", err)
	}
	return InsertResult{Acknowledged: true, InsertedID: idea.StoreID}, nil
}

func (r *PGRepo) FindByID(ctx context.Context, id primitive.ObjectID) (Idea, error) {
	const query = `
SELECT doc, created_at
FROM verified_ideas
WHERE id = $1
LIMIT 1`
	var (
		doc  []byte
		idea Idea
	)
	err := r.DB.QueryRowContext(ctx, query, id.Hex()).Scan(&doc, &idea.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Idea{}, ErrNotFound
		}
		return Idea{}, fmt.Errorf("find idea: %w", err)
	}
	if err := decodeJSON(doc, &idea); err != nil {
		return Idea{}, fmt.Errorf("decode idea %s: %w", id.Hex(), err)
	}
	idea.StoreID = id
	idea.CreatedAt = idea.CreatedAt.UTC()
	return idea.normalized(), nil
}

func (r *PGRepo) List(ctx context.Context) ([]Summary, error) {
	const query = `
SELECT id,
       doc->'ideaOwner',
       doc->'ideaName',
       doc->'ideaDescription',
       doc->'timestamp',
       doc->'category',
       doc->'currentStage'
FROM verified_ideas
ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var id string
		var owner, name, description, timestamp, category, stage []byte
		if err := rows.Scan(&id, &owner, &name, &description, &timestamp, &category, &stage); err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("scan idea: bad id %q: %w", id, err)
		}
		s := Summary{StoreID: oid}
		fields := []struct {
			raw []byte
			dst *any
		}{
			{owner, &s.IdeaOwner},
			{name, &s.IdeaName},
			{description, &s.IdeaDescription},
			{timestamp, &s.Timestamp},
			{category, &s.Category},
			{stage, &s.CurrentStage},
		}
		for _, f := range fields {
			if len(f.raw) == 0 {
				continue
			}
			if err := decodeJSON(f.raw, f.dst); err != nil {
				return nil, fmt.Errorf("decode summary of %s: %w", id, err)
			}
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	return out, nil
}

func (r *PGRepo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

// documentJSON encodes idea without the fields kept in their own columns.
func documentJSON(idea Idea) ([]byte, error) {
	data, err := json.Marshal(idea)
	if err != nil {
		return nil, fmt.Errorf("encode idea: %w", err)
	}
	var doc map[string]any
	if err := decodeJSON(data, &doc); err != nil {
		return nil, fmt.Errorf("encode idea: %w", err)
	}
	delete(doc, "_id")
	delete(doc, "createdAt")
	return json.Marshal(doc)
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
