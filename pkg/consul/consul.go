package consul

import (
	"fmt"
	"strconv"

	"accident-service/config"

	consulapi "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

type ConsulConn struct {
	logger    *zap.SugaredLogger
	cfg       *config.Config
	client    *consulapi.Client
	serviceID string
}

func NewConsulConn(logger *zap.SugaredLogger, cfg *config.Config) *ConsulConn {
	return &ConsulConn{
		logger:    logger,
		cfg:       cfg,
		serviceID: fmt.Sprintf("%s-%s-%s", cfg.ServiceName, cfg.ServiceHost, cfg.Port),
	}
}

// Connect registers the service with a /health check. It returns nil when no
// agent address is configured or the agent cannot be reached.
func (c *ConsulConn) Connect() *consulapi.Client {
	if c.cfg.ConsulAddr == "" {
		c.logger.Info("Consul not configured, skipping service registration")
		return nil
	}

	consulCfg := consulapi.DefaultConfig()
	consulCfg.Address = c.cfg.ConsulAddr
	client, err := consulapi.NewClient(consulCfg)
	if err != nil {
		c.logger.Errorf("❌ Consul client error: %v", err)
		return nil
	}

	port, _ := strconv.Atoi(c.cfg.Port)
	reg := c.registration(port)
	if err := client.Agent().ServiceRegister(reg); err != nil {
		c.logger.Errorf("❌ Consul registration failed: %v", err)
		return nil
	}

	c.client = client
	c.logger.Infow("Registered with consul", "service_id", c.serviceID, "addr", c.cfg.ConsulAddr)
	return client
}

func (c *ConsulConn) registration(port int) *consulapi.AgentServiceRegistration {
	return &consulapi.AgentServiceRegistration{
		ID:      c.serviceID,
		Name:    c.cfg.ServiceName,
		Address: c.cfg.ServiceHost,
		Port:    port,
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", c.cfg.ServiceHost, port),
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

func (c *ConsulConn) Deregister() {
	if c.client == nil {
		return
	}
	if err := c.client.Agent().ServiceDeregister(c.serviceID); err != nil {
		c.logger.Errorf("❌ Consul deregistration failed: %v", err)
		return
	}
	c.logger.Infow("Deregistered from consul", "service_id", c.serviceID)
}
