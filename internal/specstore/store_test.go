package specstore

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/paiban/shiftsat/pkg/dslmodel"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("创建 sqlmock 失败: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Store{db: db}, mock
}

func TestStore_SaveSpec_Upserts(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO specs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	spec := dslmodel.Spec{Sets: dslmodel.Sets{Employees: []string{"P1"}}}
	if _, err := store.SaveSpec(context.Background(), "demo", spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStore_LoadSpec_RoundTrips(t *testing.T) {
	store, mock := newMockStore(t)
	raw := []byte(`{"sets":{"employees":["P1"],"days":null,"shifts":null,"sites":null}}`)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT spec_json FROM specs WHERE name = $1")).
		WithArgs("demo").
		WillReturnRows(sqlmock.NewRows([]string{"spec_json"}).AddRow(raw))

	spec, err := store.LoadSpec(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spec.Sets.Employees) != 1 || spec.Sets.Employees[0] != "P1" {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}

func TestStore_LoadSpec_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT spec_json FROM specs WHERE name = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := store.LoadSpec(context.Background(), "missing"); err == nil {
		t.Fatal("expected an error for a missing spec")
	}
}

func TestStore_ListSpecs_ReturnsNamesInOrder(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM specs ORDER BY name")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("alpha").AddRow("beta"))

	names, err := store.ListSpecs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestStore_SaveJob_InsertsQueuedRow(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO solver_jobs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	spec := dslmodel.Spec{Sets: dslmodel.Sets{Employees: []string{"P1"}}}
	err := store.SaveJob(context.Background(), "job-1", spec, JobParams{MaxTimeSeconds: 10, Workers: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStore_UpdateJobDone_WritesResult(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE solver_jobs SET status = 'done'")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateJobDone(context.Background(), "job-1", dslmodel.Result{Status: dslmodel.StatusOK})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStore_UpdateJobFailed_WritesError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE solver_jobs SET status = 'failed'")).
		WithArgs("job-1", "boom").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateJobFailed(context.Background(), "job-1", "boom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
