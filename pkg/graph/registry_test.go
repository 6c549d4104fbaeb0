package graph

import "testing"

func TestEntityRegistry_AddIsInsertIfAbsent(t *testing.T) {
	r := NewEntityRegistry()

	if !r.Add("Jane Doe") {
		t.Fatal("expected first Add to report new")
	}
	if r.Add("Jane Doe") {
		t.Fatal("expected second Add to report existing")
	}
	if !r.Has("Jane Doe") {
		t.Fatal("expected Has to find the name")
	}
}

func TestEntityRegistry_ExactMatchOnly(t *testing.T) {
	r := NewEntityRegistry()
	r.Add("Jane Doe")

	// No normalization: case and whitespace variants are distinct names.
	if !r.Add("jane doe") {
		t.Fatal("expected lowercase variant to be a new name")
	}
	if !r.Add("Jane  Doe") {
		t.Fatal("expected whitespace variant to be a new name")
	}
}
