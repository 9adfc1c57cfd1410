package ideas

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// docArg matches a JSONB document argument that carries no column-backed fields.
type docArg struct {
	t *testing.T
}

func (a docArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		a.t.Errorf("doc is not JSON: %v", err)
		return false
	}
	_, hasID := doc["_id"]
	_, hasCreated := doc["createdAt"]
	return !hasID && !hasCreated && doc["ideaName"] == "Idea"
}

func TestPGRepoInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	idea := fromPayload(validPayload(t))
	idea.CreatedAt = time.Now().UTC()

	mock.ExpectExec("INSERT INTO verified_ideas").
		WithArgs(sqlmock.AnyArg(), docArg{t: t}, idea.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	res, err := repo.Insert(context.Background(), idea)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !res.Acknowledged || res.InsertedID.IsZero() {
		t.Fatalf("unexpected result: %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	id := primitive.NewObjectID()
	created := time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
	doc := `{"id":1,"ideaName":"Idea","timestamp":123,"supportingDocuments":[{"url":"u","size":10},"a.pdf"],"contributors":null}`

	mock.ExpectQuery(regexp.QuoteMeta("SELECT doc, created_at FROM verified_ideas")).
		WithArgs(id.Hex()).
		WillReturnRows(sqlmock.NewRows([]string{"doc", "created_at"}).AddRow([]byte(doc), created))

	idea, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if idea.StoreID != id || !idea.CreatedAt.Equal(created) {
		t.Fatalf("unexpected identity fields: %+v", idea)
	}
	if idea.Timestamp != json.Number("123") || idea.ID != json.Number("1") {
		t.Fatalf("unexpected document: %+v", idea)
	}
	if len(idea.SupportingDocuments) != 2 || idea.SupportingDocuments[1] != "a.pdf" {
		t.Fatalf("unexpected documents: %#v", idea.SupportingDocuments)
	}
	if first, _ := idea.SupportingDocuments[0].(map[string]any); first["size"] != json.Number("10") {
		t.Fatalf("document keys must survive storage: %#v", idea.SupportingDocuments[0])
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT doc, created_at FROM verified_ideas")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"doc", "created_at"}))

	if _, err := repo.FindByID(context.Background(), primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	id := primitive.NewObjectID()
	cols := []string{"id", "owner", "name", "description", "timestamp", "category", "stage"}
	mock.ExpectQuery("FROM verified_ideas").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(id.Hex(), []byte(`"alice"`), []byte(`"Idea"`), []byte(`"desc"`), []byte("123"), []byte(`"tech"`), []byte(`"draft"`)).
			AddRow(primitive.NewObjectID().Hex(), nil, []byte(`7`), []byte("null"), nil, nil, nil))

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(list))
	}
	if list[0].StoreID != id || list[0].IdeaOwner != "alice" || list[0].Timestamp != json.Number("123") {
		t.Fatalf("unexpected first summary: %+v", list[0])
	}
	if list[1].IdeaOwner != nil || list[1].IdeaDescription != nil || list[1].Timestamp != nil {
		t.Fatalf("expected nil for missing and null fields: %+v", list[1])
	}
	if list[1].IdeaName != json.Number("7") {
		t.Fatalf("expected non-string value kept as given, got %#v", list[1].IdeaName)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListEmptyAndError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectQuery("FROM verified_ideas").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner", "name", "description", "timestamp", "category", "stage"}))
	list, err := repo.List(context.Background())
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v %v", list, err)
	}

	mock.ExpectQuery("FROM verified_ideas").WillReturnError(errStoreDown)
	if _, err := repo.List(context.Background()); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestDocumentJSONStripsColumns(t *testing.T) {
	idea := fromPayload(validPayload(t))
	idea.StoreID = primitive.NewObjectID()
	idea.CreatedAt = time.Now()

	data, err := documentJSON(idea)
	if err != nil {
		t.Fatalf("documentJSON: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := doc["_id"]; ok {
		t.Fatalf("_id must not be stored in doc")
	}
	if doc["timestamp"] != float64(123) {
		t.Fatalf("unexpected timestamp %v", doc["timestamp"])
	}
}
