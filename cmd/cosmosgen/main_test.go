package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"cosmos-server/internal/cosmos"
)

func testOptions() options {
	return options{
		seed:      42,
		minStars:  2,
		maxStars:  5,
		tablePath: "../../configs/star_properties.yaml",
		namesPath: "../../configs/star_names.yaml",
		logLevel:  "error",
	}
}

func TestRunPrintsTree(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), testOptions(), &out, io.Discard); err != nil {
		t.Fatal(err)
	}

	var stars []cosmos.StarData
	if err := json.Unmarshal(out.Bytes(), &stars); err != nil {
		t.Fatalf("output is not a star list: %v", err)
	}
	if len(stars) < 2 || len(stars) >= 5 {
		t.Errorf("got %d stars, want [2, 5)", len(stars))
	}
}

func TestRunIsReproducible(t *testing.T) {
	var a, b bytes.Buffer
	if err := run(context.Background(), testOptions(), &a, io.Discard); err != nil {
		t.Fatal(err)
	}
	if err := run(context.Background(), testOptions(), &b, io.Discard); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("same flags produced different output")
	}
}

func TestRunStats(t *testing.T) {
	opts := testOptions()
	opts.statsOnly = true

	var out bytes.Buffer
	if err := run(context.Background(), opts, &out, io.Discard); err != nil {
		t.Fatal(err)
	}

	var stats cosmos.BodyStatistics
	if err := json.Unmarshal(out.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Stars < 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRunInvalidRange(t *testing.T) {
	opts := testOptions()
	opts.minStars, opts.maxStars = 5, 5

	if err := run(context.Background(), opts, io.Discard, io.Discard); err == nil {
		t.Error("expected error for empty star range")
	}
}
