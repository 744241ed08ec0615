package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"intervox/internal/api"
	"intervox/internal/config"
	"intervox/internal/logging"
	"intervox/internal/session"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	sessionOnce sync.Once
	session     *session.Manager
	sessionErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) sessionManager() (*session.Manager, error) {
	c.sessionOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.sessionErr = err
			return
		}
		mgr, err := session.NewManager(cfg.Auth.StatePath)
		if err != nil {
			c.sessionErr = fmt.Errorf("open session state: %w", err)
			return
		}
		c.session = mgr
	})
	return c.session, c.sessionErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: os.Stderr,
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) apiClient() (*api.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	mgr, err := c.sessionManager()
	if err != nil {
		return nil, err
	}
	return api.New(cfg.Server.APIURL, mgr,
		api.WithTimeout(time.Duration(cfg.Server.RequestTimeout)*time.Second)), nil
}

func (c *commandContext) withClient(fn func(*api.Client) error) error {
	client, err := c.apiClient()
	if err != nil {
		return err
	}
	return fn(client)
}
