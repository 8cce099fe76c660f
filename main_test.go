package main

import (
	"os"
	"testing"

	"habittracker/utils"
)

// Package init must come up without MongoDB when GO_ENV=test; the suite
// would die in init() otherwise, before any test runs.
func TestInitSkipsMongoInTestEnv(t *testing.T) {
	if os.Getenv("GO_ENV") != "test" {
		t.Skip("requires GO_ENV=test")
	}
	if utils.MongoClient != nil {
		t.Fatal("expected the Mongo bootstrap to be skipped under GO_ENV=test")
	}
}
