package services

import (
	"reflect"
	"testing"

	"docsite/pkg/models"
)

func TestDocHref(t *testing.T) {
	tests := map[string]string{
		"":                 "/docs",
		"/":                "/docs",
		"guide":            "/docs/guide",
		"guide/setup":      "/docs/guide/setup",
		"/guide//setup/":   "/docs/guide/setup",
		"Release Notes/v1": "/docs/Release%20Notes/v1",
		"what?/50%":        "/docs/what%3F/50%25",
	}
	for in, want := range tests {
		if got := DocHref(in); got != want {
			t.Errorf("DocHref(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBreadcrumbs(t *testing.T) {
	got := Breadcrumbs("getting-started/First Steps")

	want := []models.Crumb{
		{Href: "/", Label: "Docs"},
		{Href: "/docs/getting-started", Label: "getting started"},
		{Href: "/docs/getting-started/First%20Steps", Label: "First Steps", Current: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("crumbs = %+v, want %+v", got, want)
	}
}

func TestBreadcrumbsPercentNames(t *testing.T) {
	got := Breadcrumbs("50% off/a%20b")

	want := []models.Crumb{
		{Href: "/", Label: "Docs"},
		{Href: "/docs/50%25%20off", Label: "50% off"},
		{Href: "/docs/50%25%20off/a%2520b", Label: "a%20b", Current: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("crumbs = %+v, want %+v", got, want)
	}
}

func TestBreadcrumbsRoot(t *testing.T) {
	got := Breadcrumbs("")

	want := []models.Crumb{{Href: "/", Label: "Docs", Current: true}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("crumbs = %+v, want %+v", got, want)
	}
}
