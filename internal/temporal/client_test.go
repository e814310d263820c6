package temporal

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexusqa/agents/pkg/config"
)

func TestDialOptions(t *testing.T) {
	cfg := config.TemporalConfig{
		Address:        "temporal:7233",
		Namespace:      "qa-agents",
		WorkerIdentity: "agents-worker-1",
	}

	opts := dialOptions(cfg)
	assert.Equal(t, "temporal:7233", opts.HostPort)
	assert.Equal(t, "qa-agents", opts.Namespace)
	assert.Equal(t, "agents-worker-1", opts.Identity)
	assert.Nil(t, opts.ConnectionOptions.TLS)

	cfg.TLSEnabled = true
	opts = dialOptions(cfg)
	if assert.NotNil(t, opts.ConnectionOptions.TLS) {
		assert.Equal(t, uint16(tls.VersionTLS12), opts.ConnectionOptions.TLS.MinVersion)
	}
}
