package job

import (
	"encoding/json"
	"os"
	"reflect"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestSalaryRange(t *testing.T) {
	tests := []struct {
		name    string
		posting Posting
		want    string
	}{
		{"both bounds", Posting{SalaryMin: floatPtr(50000), SalaryMax: floatPtr(80000)}, "$50000 - $80000"},
		{"min only", Posting{SalaryMin: floatPtr(50000)}, "$50000+"},
		{"max only", Posting{SalaryMax: floatPtr(80000)}, "Up to $80000"},
		{"unspecified", Posting{}, "Not specified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.posting.SalaryRange(); got != tt.want {
				t.Fatalf("SalaryRange() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostingsRetain(t *testing.T) {
	postings := &Postings{Items: []*Posting{
		{ID: 1, IsActive: true},
		{ID: 2, IsActive: false},
		{ID: 3, IsActive: true},
	}}

	removed := postings.Retain(func(p *Posting) bool { return p.IsActive })

	if !reflect.DeepEqual(removed, []int64{2}) {
		t.Fatalf("removed = %v, want [2]", removed)
	}
	if !reflect.DeepEqual(postings.IDs(), []int64{1, 3}) {
		t.Fatalf("kept = %v, want [1 3]", postings.IDs())
	}
}

func TestPostingsExclude(t *testing.T) {
	postings := &Postings{Items: []*Posting{{ID: 1}, {ID: 2}, {ID: 3}}}

	removed := postings.Exclude([]int64{2, 99})

	if !reflect.DeepEqual(removed, []int64{2}) {
		t.Fatalf("removed = %v, want [2]", removed)
	}
	if postings.FindByID(2) != nil {
		t.Fatalf("posting 2 must be gone")
	}
	if postings.Len() != 2 {
		t.Fatalf("expected 2 postings left, got %d", postings.Len())
	}

	if removed := postings.Exclude(nil); removed != nil {
		t.Fatalf("excluding nothing must remove nothing, got %v", removed)
	}
}

func TestDumpToTmpFile(t *testing.T) {
	postings := &Postings{Items: []*Posting{
		{ID: 1, Title: "Backend Engineer", CompanyName: "Acme"},
		{ID: 2, Title: "Data Engineer", CompanyName: "Globex"},
	}}

	path, err := postings.DumpToTmpFile()
	if err != nil {
		t.Fatalf("DumpToTmpFile() error: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}

	var decoded Postings
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decoding dump: %v", err)
	}
	if !reflect.DeepEqual(decoded.IDs(), postings.IDs()) {
		t.Fatalf("dumped IDs = %v, want %v", decoded.IDs(), postings.IDs())
	}
	if decoded.Items[0].Title != "Backend Engineer" {
		t.Fatalf("unexpected first posting: %+v", decoded.Items[0])
	}
}

func TestReportByCompany(t *testing.T) {
	postings := &Postings{Items: []*Posting{
		{Title: "Backend Engineer", CompanyName: "Acme", Location: "Berlin", JobType: JobTypeFullTime, ExperienceLevel: ExperienceMid, IsVerified: true},
		{Title: "Data Engineer", CompanyName: "Acme", JobType: JobTypeContract, ExperienceLevel: ExperienceSenior},
		{Title: "Intern", CompanyName: "Globex", JobType: JobTypeInternship, ExperienceLevel: ExperienceEntry},
	}}

	report := postings.ReportByCompany()

	if len(report["Acme"]) != 2 {
		t.Fatalf("expected 2 Acme entries, got %d", len(report["Acme"]))
	}
	entry := report["Acme"][0]
	if entry["title"] != "Backend Engineer" {
		t.Fatalf("unexpected title: %q", entry["title"])
	}
	if entry["verified"] != "true" {
		t.Fatalf("expected verified true, got %q", entry["verified"])
	}
	if entry["salary"] != "Not specified" {
		t.Fatalf("unexpected salary: %q", entry["salary"])
	}
	if len(report["Globex"]) != 1 {
		t.Fatalf("expected 1 Globex entry, got %d", len(report["Globex"]))
	}
}
