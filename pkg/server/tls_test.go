package server

import (
	"testing"

	"github.com/stretchr/testify/require"

	"domly/pkg/config"
)

func TestTLSSettings_Validate(t *testing.T) {
	require.NoError(t, TLSSettings{Env: "development"}.Validate())
	require.Error(t, TLSSettings{Env: "production"}.Validate())
	require.Error(t, TLSSettings{Env: "production", EnableTLS: true}.Validate())
	require.NoError(t, TLSSettings{Env: "production", EnableTLS: true, CertPath: "c.pem", KeyPath: "k.pem"}.Validate())
}

func TestTLSSettings_SelfSigned(t *testing.T) {
	s := TLSSettingsFrom(&config.Config{EnableTLS: true, AppEnv: "development", TLSSelfSigned: true})
	cfg, err := s.BuildTLSConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Certificates, 1)

	s.AllowSelfSigned = false
	_, err = s.BuildTLSConfig()
	require.Error(t, err)
}
