package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/config"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/persistence"
	"github.com/DEVTAYPE/nasa-challengue-trivia/internal/questions"
)

func TestOpenKV(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{name: "memory", cfg: config.Config{StorageBackend: config.BackendMemory}},
		{name: "sqlite", cfg: config.Config{StorageBackend: config.BackendSQLite, DBPath: filepath.Join(t.TempDir(), "fq.db")}},
		{name: "redis bad url", cfg: config.Config{StorageBackend: config.BackendRedis, RedisURL: "not-a-url"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv, closeKV, err := openKV(ctx, &tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("openKV: %v", err)
			}
			defer closeKV()

			if err := kv.Set(ctx, persistence.SessionKey, "{}"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := kv.Check(ctx); err != nil {
				t.Errorf("Check: %v", err)
			}
		})
	}
}

func TestQuestionsChecker(t *testing.T) {
	qs, err := questions.Load(questions.DatasetDefault)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if err := questionsChecker(questions.NewMemorySource(qs)).Check(context.Background()); err != nil {
		t.Errorf("full dataset: %v", err)
	}

	cornOnly := []farmquest.Question{qs[0]}
	if qs[0].CropType != farmquest.CropCorn {
		t.Fatalf("first question is %s, want corn", qs[0].CropType)
	}
	if err := questionsChecker(questions.NewMemorySource(cornOnly)).Check(context.Background()); err == nil {
		t.Error("corn-only dataset: want error")
	}
}
