package core

import (
	"context"
	"reflect"
	"testing"
)

func TestColumns(t *testing.T) {
	db := &fakeDB{queries: map[string][][]interface{}{
		"jsonb_object_keys": {{"Answer.a"}, {"hitid"}, {"hittypeid"}},
	}}
	svc := newTestService(db)

	got, err := svc.Columns(context.Background())
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	want := []string{"Answer.a", "hitid", "hittypeid"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Columns = %v, want %v", got, want)
	}
}

func TestFiles(t *testing.T) {
	db := &fakeDB{queries: map[string][][]interface{}{
		"FROM result_files": {
			{"a.results", "T1", 2},
			{"b.results", "", 1},
		},
	}}
	svc := newTestService(db)

	got, err := svc.Files(context.Background())
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []FileSummary{
		{Path: "a.results", HITTypeID: "T1", RecordCount: 2},
		{Path: "b.results", HITTypeID: "", RecordCount: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Files = %v, want %v", got, want)
	}
}

func TestRecordsPagination(t *testing.T) {
	db := &fakeDB{
		rowVals: map[string][]interface{}{
			"count(*)": {int64(5)},
		},
		queries: map[string][][]interface{}{
			"FROM assignments": {
				{[]byte(`{"hitid":"H2","hittypeid":"T1"}`)},
				{[]byte(`{"hitid":"H3","hittypeid":"T1"}`)},
			},
		},
	}
	svc := newTestService(db)

	page, err := svc.Records(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("Total = %d, want 5", page.Total)
	}
	if page.Limit != 2 || page.Offset != 1 {
		t.Errorf("page = limit %d offset %d, want limit 2 offset 1", page.Limit, page.Offset)
	}
	if len(page.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(page.Records))
	}
	if got := page.Records[0]["hitid"]; got != "H2" {
		t.Errorf("first record hitid = %q, want %q", got, "H2")
	}
}

func TestRecordsNormalizesPageBounds(t *testing.T) {
	db := &fakeDB{rowVals: map[string][]interface{}{
		"count(*)": {int64(0)},
	}}
	svc := newTestService(db)

	page, err := svc.Records(context.Background(), 0, -3)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if page.Limit != 100 || page.Offset != 0 {
		t.Errorf("page = limit %d offset %d, want limit 100 offset 0", page.Limit, page.Offset)
	}
	if len(page.Records) != 0 {
		t.Errorf("got %d records, want 0", len(page.Records))
	}
}
