//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "dropship-order-service"
	ConsumerName = "dropship-portal"

	StateOrdersBaseline = "customer 5 has orders"
	StateOrderExists    = "order 301 belongs to customer 5"
	StateOrderMissing   = "no order 999"
	StateWalletFunded   = "customer 5 wallet holds 50.00"
	StateWalletEmpty    = "customer 5 has no wallet"
)

const (
	// SessionToken authenticates as CustomerID on the provider side.
	SessionToken       = "pact-session-token"
	CustomerID   int64 = 5

	ExistingOrderID int64 = 301
	MissingOrderID  int64 = 999

	FundedBalance = "50.00"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// BearerHeader is the Authorization value every interaction sends.
func BearerHeader() string {
	return "Bearer " + SessionToken
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
