package factory

import (
	"testing"

	"github.com/ForgeClient/internal/app"
	"github.com/ForgeClient/internal/infra/fetcher"
	"github.com/ForgeClient/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFetcher(t *testing.T) {
	f, err := NewFetcher(&config.Config{BaseURL: "http://localhost"})
	require.NoError(t, err)
	assert.IsType(t, &fetcher.HTTPFetcher{}, f)

	f, err = NewFetcher(&config.Config{BaseURL: "http://localhost", BreakerEnabled: true, BreakerFailures: 2})
	require.NoError(t, err)
	assert.IsType(t, &fetcher.BreakerFetcher{}, f)

	_, err = NewFetcher(&config.Config{BaseURL: "http://localhost", BreakerEnabled: true})
	assert.Error(t, err)

	_, err = NewFetcher(&config.Config{})
	assert.Error(t, err)
}

func TestNewTargets(t *testing.T) {
	targets, err := NewTargets(&config.Config{Targets: []string{"user:octocat", "pulls:rails/rails"}})
	require.NoError(t, err)
	assert.Equal(t, []app.Target{{Kind: "user", Arg: "octocat"}, {Kind: "pulls", Arg: "rails/rails"}}, targets)

	_, err = NewTargets(&config.Config{})
	assert.Error(t, err)

	_, err = NewTargets(&config.Config{Targets: []string{"issues:rails"}})
	assert.Error(t, err)
}

func TestNewExportService_Validation(t *testing.T) {
	_, err := NewExportService(nil, nil, nil, nil, &config.Config{})
	assert.Error(t, err)
}

func TestCheckKafkaConfig(t *testing.T) {
	assert.Error(t, checkKafkaConfig(nil, "forge_records"))
	assert.Error(t, checkKafkaConfig([]string{"kafka:29092"}, ""))
	assert.NoError(t, checkKafkaConfig([]string{"kafka:29092"}, "forge_records"))
}
