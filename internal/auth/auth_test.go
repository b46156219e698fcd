package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTokenLifecycle(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvToken, "")

	ti, err := GetToken()
	if err != nil || ti != nil {
		t.Fatalf("GetToken before login = %+v, %v; want nil, nil", ti, err)
	}

	if err := SetToken("Bearer  s3cret ", nil); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	fi, err := os.Stat(filepath.Join(home, ".tada", "credentials.json"))
	if err != nil {
		t.Fatalf("credentials file: %v", err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v, want 0600", fi.Mode().Perm())
	}

	ti, err = GetToken()
	if err != nil || ti == nil {
		t.Fatalf("GetToken = %+v, %v", ti, err)
	}
	if ti.Token != "s3cret" || ti.Source != SourceFile {
		t.Errorf("token = %+v", ti)
	}

	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if Token() != "" {
		t.Error("token still present after delete")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := SetToken("from-file", nil); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvToken, "bearer from-env")

	ti, err := GetToken()
	if err != nil {
		t.Fatal(err)
	}
	if ti.Token != "from-env" || ti.Source != SourceEnv {
		t.Errorf("token = %+v, want env token", ti)
	}
}

func TestSetTokenRejectsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := SetToken("   ", nil); err == nil {
		t.Error("expected error for empty token")
	}
}
