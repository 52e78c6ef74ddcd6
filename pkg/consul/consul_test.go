package consul

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"accident-service/config"

	consulapi "github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsulConn_NotConfigured(t *testing.T) {
	conn := NewConsulConn(zap.NewNop().Sugar(), &config.Config{Port: "8000", ServiceName: "accident-service"})

	assert.Nil(t, conn.Connect())
	conn.Deregister()
}

func TestConsulConn_RegisterAndDeregister(t *testing.T) {
	var (
		mu   sync.Mutex
		reg  consulapi.AgentServiceRegistration
		seen []string
	)
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		if strings.HasSuffix(r.URL.Path, "/service/register") {
			_ = json.NewDecoder(r.Body).Decode(&reg)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer agent.Close()

	cfg := &config.Config{
		Port:        "8000",
		ConsulAddr:  strings.TrimPrefix(agent.URL, "http://"),
		ServiceName: "accident-service",
		ServiceHost: "10.0.0.5",
	}
	conn := NewConsulConn(zap.NewNop().Sugar(), cfg)

	require.NotNil(t, conn.Connect())
	conn.Deregister()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "accident-service", reg.Name)
	assert.Equal(t, 8000, reg.Port)
	require.NotNil(t, reg.Check)
	assert.Equal(t, "http://10.0.0.5:8000/health", reg.Check.HTTP)
	assert.Contains(t, seen, "PUT /v1/agent/service/register")
	assert.Contains(t, seen, "PUT /v1/agent/service/deregister/accident-service-10.0.0.5-8000")
}
