package testutil

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/seed"
	"github.com/trezcool/shule/storage/kv/memory"
	"github.com/trezcool/shule/storage/localstore"
)

// NewStore returns an in-memory localstore.Store that initializes itself with ds.
func NewStore(t *testing.T, ds school.Dataset) *localstore.Store {
	t.Helper()
	db, err := memkv.Open()
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return localstore.New(db, func() school.Dataset { return ds })
}

// NewSeededStore returns an in-memory localstore.Store backed by a seeded generator.
func NewSeededStore(t *testing.T, cat *catalog.Catalog, seedValue int64) *localstore.Store {
	t.Helper()
	gen := seed.NewGenerator(cat, seed.DefaultConfig, rand.New(rand.NewSource(seedValue)))
	db, err := memkv.Open()
	if err != nil {
		t.Fatalf("NewSeededStore() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return localstore.New(db, gen.Generate)
}

// NewService returns a school.Service over an in-memory store holding ds.
func NewService(t *testing.T, ds school.Dataset) (*school.Service, *localstore.Store) {
	t.Helper()
	store := NewStore(t, ds)
	return school.NewService(store, catalog.Default()), store
}

func Student(id, classID string, attendance int) school.Student {
	return school.Student{
		ID:              id,
		Name:            "Student " + id,
		AdmissionNumber: "ADM-" + id,
		ClassID:         classID,
		Stream:          "North",
		Gender:          school.GenderFemale,
		AttendanceRate:  attendance,
	}
}

func Result(cat *catalog.Catalog, studentID, subjectID, term string, score int) school.ExamResult {
	return school.ExamResult{
		ID:        school.ResultID(cat, studentID, subjectID, term),
		StudentID: studentID,
		SubjectID: subjectID,
		Term:      term,
		Score:     score,
		Grade:     cat.Grading.GradeOf(score),
		Date:      time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Load fails the test on error.
func Load(t *testing.T, store school.Store) school.Dataset {
	t.Helper()
	ds, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return ds
}
