// Package model defines the core types shared across the reconciliation
// pipeline: catalog records, merge groups, runs, and run summaries.
package model

import "strings"

// Field identifies one of the reconcilable columns of a catalog row.
type Field string

// Reconcilable fields. Name is deliberately absent: no stage may rewrite it.
const (
	FieldBrand       Field = "brand"
	FieldSubcategory Field = "subcategory"
	FieldType        Field = "type"
)

// TargetFields lists the fields that normalization, restoration, and
// extraction are allowed to touch, in stable order.
var TargetFields = []Field{FieldBrand, FieldSubcategory, FieldType}

// ProductRecord is one catalog row, read fresh each run and mutated in
// memory by the pipeline stages. RowIndex is the ownership key for writes
// and stays stable for the duration of a run.
type ProductRecord struct {
	RowIndex    int
	Name        string
	Brand       string
	Subcategory string
	Type        string

	// Raw is the full original row, preserved verbatim for columns the
	// pipeline does not understand. Written back around the reconciled
	// fields on commit.
	Raw []string

	// Deleted marks a merged-away duplicate for deletion at commit time.
	Deleted bool
	// Dirty marks a record whose reconciled fields changed this run.
	Dirty bool
}

// Get returns the value of a reconcilable field.
func (r *ProductRecord) Get(f Field) string {
	switch f {
	case FieldBrand:
		return r.Brand
	case FieldSubcategory:
		return r.Subcategory
	case FieldType:
		return r.Type
	}
	return ""
}

// Set assigns a reconcilable field and marks the record dirty when the
// value actually changes.
func (r *ProductRecord) Set(f Field, v string) {
	if r.Get(f) == v {
		return
	}
	switch f {
	case FieldBrand:
		r.Brand = v
	case FieldSubcategory:
		r.Subcategory = v
	case FieldType:
		r.Type = v
	default:
		return
	}
	r.Dirty = true
}

// MissingAny reports whether at least one reconcilable field is empty.
func (r *ProductRecord) MissingAny() bool {
	for _, f := range TargetFields {
		if strings.TrimSpace(r.Get(f)) == "" {
			return true
		}
	}
	return false
}

// PopulatedFields counts the non-empty reconcilable fields plus the name.
// Used as a completeness score for survivor selection.
func (r *ProductRecord) PopulatedFields() int {
	n := 0
	if strings.TrimSpace(r.Name) != "" {
		n++
	}
	for _, f := range TargetFields {
		if strings.TrimSpace(r.Get(f)) != "" {
			n++
		}
	}
	for _, v := range r.Raw {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// BackupRecord mirrors the catalog row shape, sourced from a separate
// presumed-trustworthy snapshot sheet. Read-only: the pipeline never
// mutates or writes backup rows.
type BackupRecord struct {
	RowIndex    int
	Name        string
	Brand       string
	Subcategory string
	Type        string
}

// Get returns the value of a reconcilable field on the backup row.
func (b *BackupRecord) Get(f Field) string {
	switch f {
	case FieldBrand:
		return b.Brand
	case FieldSubcategory:
		return b.Subcategory
	case FieldType:
		return b.Type
	}
	return ""
}

// MergeGroup is a set of records judged to be the same real-world product.
// Exactly one member is the survivor; the rest are marked for deletion.
type MergeGroup struct {
	Survivor *ProductRecord
	Members  []*ProductRecord
}
