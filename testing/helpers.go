// Package testing provides test utilities for converters.
package testing

import (
	"context"
	"errors"
	"fmt"
	stdtesting "testing"

	"github.com/zoobzio/converters"
)

// Person is a bean with two public fields and no readable properties.
type Person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Account is a bean with readable properties, public fields, an excluded
// field and transform tags.
type Account struct {
	ID        string `json:"id"`
	Email     string `json:"email" marshal.mask:"email"`
	Password  string `json:"password" marshal.redact:"***"`
	TempToken string `json:"tempToken" marshal:"-"`

	owner  string
	active bool
}

// NewAccount returns an Account owned by owner.
func NewAccount(id, email, owner string) *Account {
	return &Account{
		ID:        id,
		Email:     email,
		Password:  "supersecret",
		TempToken: "tok-123",
		owner:     owner,
		active:    true,
	}
}

// GetOwner is a readable property.
func (a *Account) GetOwner() string { return a.owner }

// IsActive is a readable property.
func (a *Account) IsActive() bool { return a.active }

// ErrBroken is returned by Broken.GetStatus.
var ErrBroken = errors.New("status unavailable")

// Broken is a bean whose readable property always fails.
type Broken struct {
	Name string `json:"name"`
}

// GetStatus fails with ErrBroken.
func (Broken) GetStatus() (string, error) { return "", ErrBroken }

// Node is a linked bean; a Node pointing at itself forms a cycle.
type Node struct {
	Value string `json:"value"`
	Next  *Node  `json:"next"`
}

// Recorder is a converters.Writer that records each call as a short token:
// "{", "}", "[", "]", "key:<name>" or "value:<v>".
type Recorder struct {
	Events []string
}

// Object records "{".
func (r *Recorder) Object() error { r.Events = append(r.Events, "{"); return nil }

// EndObject records "}".
func (r *Recorder) EndObject() error { r.Events = append(r.Events, "}"); return nil }

// Array records "[".
func (r *Recorder) Array() error { r.Events = append(r.Events, "["); return nil }

// EndArray records "]".
func (r *Recorder) EndArray() error { r.Events = append(r.Events, "]"); return nil }

// Key records "key:<name>".
func (r *Recorder) Key(name string) error {
	r.Events = append(r.Events, "key:"+name)
	return nil
}

// Value records "value:<v>".
func (r *Recorder) Value(v any) error {
	r.Events = append(r.Events, fmt.Sprintf("value:%v", v))
	return nil
}

// MustDocument converts v with p and fails the test unless the result is a
// converters.Document.
func MustDocument(tb stdtesting.TB, p *converters.Processor, v any) converters.Document {
	tb.Helper()

	out, err := p.Document(context.Background(), v)
	if err != nil {
		tb.Fatalf("Document() error: %v", err)
	}
	doc, ok := out.(converters.Document)
	if !ok {
		tb.Fatalf("Document() = %T, want converters.Document", out)
	}
	return doc
}
