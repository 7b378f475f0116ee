package control

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-speakerman/dsp/dynamics"
	"github.com/cwbudde/algo-speakerman/engine/config"
	"github.com/cwbudde/algo-speakerman/engine/processor"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l *logrus.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// Manager publishes configurations to a processor.
type Manager struct {
	proc *processor.Processor
	log  *logrus.Logger

	mu       sync.Mutex
	applied  int
	rejected int
}

// NewManager returns a manager for proc.
func NewManager(proc *processor.Processor, opts ...Option) *Manager {
	m := &Manager{proc: proc, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Processor returns the managed processor.
func (m *Manager) Processor() *processor.Processor { return m.proc }

// Logger returns the logger.
func (m *Manager) Logger() *logrus.Logger { return m.log }

// Apply publishes cfg. A rejected configuration is logged and the previous
// one stays active.
func (m *Manager) Apply(cfg config.UserConfiguration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.proc.Apply(cfg); err != nil {
		m.rejected++
		m.log.WithFields(logrus.Fields{
			"function": "Apply",
			"error":    err,
		}).Error("Configuration rejected, keeping the last good one")
		return err
	}

	m.applied++
	m.log.WithFields(logrus.Fields{
		"function":    "Apply",
		"groups":      len(cfg.Groups),
		"crossovers":  cfg.CrossoverFrequencies,
		"sample_rate": m.proc.SampleRate(),
	}).Info("Configuration applied")

	return nil
}

// Reload reads the configuration file at path and applies it.
func (m *Manager) Reload(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		m.mu.Lock()
		m.rejected++
		m.mu.Unlock()

		m.log.WithFields(logrus.Fields{
			"function": "Reload",
			"path":     path,
			"error":    err,
		}).Error("Configuration file rejected, keeping the last good one")
		return fmt.Errorf("control: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"function": "Reload",
		"path":     path,
	}).Debug("Configuration file loaded")

	return m.Apply(cfg)
}

// Config returns the active configuration.
func (m *Manager) Config() config.UserConfiguration { return m.proc.Config() }

// Stats returns the number of applied and rejected configurations.
func (m *Manager) Stats() (applied, rejected int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.applied, m.rejected
}

// Levels returns the levels collected since the previous call and starts a
// new metering period.
func (m *Manager) Levels() (dynamics.Levels, bool) {
	l, ok := m.proc.Levels()
	if ok {
		m.proc.ResetLevels()
	}
	return l, ok
}

// LogLevels logs the current levels as signal values, where 1 is the
// threshold.
func (m *Manager) LogLevels() {
	l, ok := m.Levels()
	if !ok {
		return
	}

	fields := logrus.Fields{
		"function": "LogLevels",
		"frames":   l.Count(),
		"sub":      fmt.Sprintf("%.3f", l.Signal(0)),
	}
	for g := 1; g <= l.Groups(); g++ {
		fields[fmt.Sprintf("group_%d", g)] = fmt.Sprintf("%.3f", l.Signal(g))
	}
	m.log.WithFields(fields).Info("Levels")
}
