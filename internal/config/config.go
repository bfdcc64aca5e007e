// Package config loads the check file and resolves it into materialized
// check definitions. Resolution is a two-level merge: per-check fields
// win over the defaults block, which wins over built-in defaults. All
// validation problems in a file are reported together.
package config

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/checkmon/checkmon/internal/alert"
	"github.com/checkmon/checkmon/internal/check"
	"github.com/checkmon/checkmon/internal/probe"
	"github.com/checkmon/checkmon/internal/selector"
)

// Mode selects which policy fields are required at resolve time.
type Mode int

const (
	ModeReport Mode = iota
	ModeAlert
)

// Durations in the file are float seconds.

type RetryPolicy struct {
	MaxRetries *int     `yaml:"max_retries"`
	Initial    *float64 `yaml:"initial"`
	Multiplier *float64 `yaml:"multiplier"`
}

type AlertPolicy struct {
	CheckInterval   *float64 `yaml:"checkInterval"`
	RecheckInterval *float64 `yaml:"recheckInterval"`
}

type HTTPParams struct {
	URL *string `yaml:"url"`
}

type DNSParams struct {
	Domain *string `yaml:"domain"`
}

type SSHParams struct {
	Hostname *string `yaml:"hostname"`
	Command  *string `yaml:"command"`
	User     *string `yaml:"user"`
}

type Defaults struct {
	HTTP        *HTTPParams  `yaml:"http"`
	DNS         *DNSParams   `yaml:"dns"`
	SSH         *SSHParams   `yaml:"ssh"`
	RetryPolicy *RetryPolicy `yaml:"retry_policy"`
	AlertPolicy *AlertPolicy `yaml:"alert_policy"`
}

type AlertSink struct {
	BaseURL               string   `yaml:"baseURL"`
	RealertInterval       *float64 `yaml:"realertInterval"`
	AllowOutputAnnotation bool     `yaml:"allowOutputAnnotation"`
	StatusAddr            string   `yaml:"statusAddr"`
}

type Check struct {
	Name        string            `yaml:"name"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`

	CheckTimeout *float64     `yaml:"check_timeout"`
	RetryPolicy  *RetryPolicy `yaml:"retry_policy"`
	AlertPolicy  *AlertPolicy `yaml:"alert_policy"`

	Type   string    `yaml:"type"`
	Params yaml.Node `yaml:"params"`
}

type File struct {
	Defaults *Defaults  `yaml:"defaults"`
	Alert    *AlertSink `yaml:"alert"`
	Checks   []Check    `yaml:"checks"`
}

// Load reads and parses the config file; "-" reads stdin. YAML is a
// superset of JSON, so JSON check files work unchanged.
func Load(path string) (*File, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &f, nil
}

// AlertConfig resolves the alert sink section. Only alert mode calls
// it; baseURL and realertInterval are required there.
func (f *File) AlertConfig() (alert.Config, string, error) {
	var errs error
	var cfg alert.Config
	var statusAddr string

	if f.Alert == nil {
		return cfg, "", fmt.Errorf("'alert' section is required in alert mode")
	}
	if f.Alert.BaseURL == "" {
		errs = multierr.Append(errs, fmt.Errorf("'baseURL' is a required field of the alert section"))
	}
	if f.Alert.RealertInterval == nil {
		errs = multierr.Append(errs, fmt.Errorf("'realertInterval' is a required field of the alert section"))
	} else if *f.Alert.RealertInterval <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("'realertInterval' must be positive"))
	}
	if errs != nil {
		return cfg, "", errs
	}

	cfg = alert.Config{
		BaseURL:               f.Alert.BaseURL,
		RealertInterval:       seconds(*f.Alert.RealertInterval),
		AllowOutputAnnotation: f.Alert.AllowOutputAnnotation,
	}
	statusAddr = f.Alert.StatusAddr
	return cfg, statusAddr, nil
}

// Resolve merges defaults into every check, filters by the selector
// terms, and materializes definitions with ids assigned by enumeration
// order over the selected set. Every invalid field is a distinct error.
func (f *File) Resolve(mode Mode, terms []*selector.Term) ([]check.Definition, error) {
	var errs error
	defs := make([]check.Definition, 0, len(f.Checks))

	var d Defaults
	if f.Defaults != nil {
		d = *f.Defaults
	}

	id := 0
	for i, c := range f.Checks {
		if !selector.MatchAll(terms, c.Labels) {
			continue
		}

		def, err := resolveCheck(c, d, mode, id)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("check %d: %w", i, err))
			continue
		}
		defs = append(defs, def)
		id++
	}

	if errs != nil {
		return nil, errs
	}
	return defs, nil
}

func resolveCheck(c Check, d Defaults, mode Mode, id int) (check.Definition, error) {
	var errs error
	def := check.Definition{
		ID:          id,
		Name:        c.Name,
		Labels:      c.Labels,
		Annotations: c.Annotations,
		Timeout:     10 * time.Second,
	}
	if c.CheckTimeout != nil {
		def.Timeout = seconds(*c.CheckTimeout)
	}

	retry, err := resolveRetry(c.RetryPolicy, d.RetryPolicy)
	errs = multierr.Append(errs, err)
	def.Retry = retry

	if mode == ModeAlert {
		ap, err := resolveAlertPolicy(c.AlertPolicy, d.AlertPolicy)
		errs = multierr.Append(errs, err)
		def.Alert = ap
	}

	prober, err := buildProber(c, d)
	errs = multierr.Append(errs, err)
	def.Prober = prober

	if errs != nil {
		return check.Definition{}, errs
	}
	if def.Name == "" {
		def.Name = def.Prober.Name()
	}
	return def, nil
}

// Built-in retry defaults match the historical behavior: three retries
// starting at one second, growing 10% per attempt.
func resolveRetry(c, d *RetryPolicy) (check.Policy, error) {
	merged := RetryPolicy{}
	for _, p := range []*RetryPolicy{c, d} {
		if p == nil {
			continue
		}
		if merged.MaxRetries == nil {
			merged.MaxRetries = p.MaxRetries
		}
		if merged.Initial == nil {
			merged.Initial = p.Initial
		}
		if merged.Multiplier == nil {
			merged.Multiplier = p.Multiplier
		}
	}

	policy := check.Policy{MaxRetries: 3, Initial: time.Second, Multiplier: 1.1}
	var errs error
	if merged.MaxRetries != nil {
		if *merged.MaxRetries < 0 {
			errs = multierr.Append(errs, fmt.Errorf("'max_retries' must be >= 0"))
		} else {
			policy.MaxRetries = *merged.MaxRetries
		}
	}
	if merged.Initial != nil {
		if *merged.Initial <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("'initial' must be > 0"))
		} else {
			policy.Initial = seconds(*merged.Initial)
		}
	}
	if merged.Multiplier != nil {
		if *merged.Multiplier <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("'multiplier' must be > 0"))
		} else {
			policy.Multiplier = *merged.Multiplier
		}
	}
	return policy, errs
}

func resolveAlertPolicy(c, d *AlertPolicy) (check.AlertPolicy, error) {
	merged := AlertPolicy{}
	for _, p := range []*AlertPolicy{c, d} {
		if p == nil {
			continue
		}
		if merged.CheckInterval == nil {
			merged.CheckInterval = p.CheckInterval
		}
		if merged.RecheckInterval == nil {
			merged.RecheckInterval = p.RecheckInterval
		}
	}

	var errs error
	var ap check.AlertPolicy
	if merged.CheckInterval == nil {
		errs = multierr.Append(errs, fmt.Errorf("'checkInterval' is a required field in alert mode"))
	} else {
		ap.CheckInterval = seconds(*merged.CheckInterval)
	}
	if merged.RecheckInterval == nil {
		errs = multierr.Append(errs, fmt.Errorf("'recheckInterval' is a required field in alert mode"))
	} else {
		ap.RecheckInterval = seconds(*merged.RecheckInterval)
	}
	return ap, errs
}

func buildProber(c Check, d Defaults) (probe.Prober, error) {
	switch c.Type {
	case "http":
		var p HTTPParams
		if err := decodeParams(c.Params, &p); err != nil {
			return nil, err
		}
		if p.URL == nil && d.HTTP != nil {
			p.URL = d.HTTP.URL
		}
		if p.URL == nil {
			return nil, fmt.Errorf("'url' is a required field for http checks")
		}
		// one client per check; no sharing across tasks
		return probe.NewHTTP(*p.URL, &http.Client{}), nil

	case "dns":
		var p DNSParams
		if err := decodeParams(c.Params, &p); err != nil {
			return nil, err
		}
		if p.Domain == nil && d.DNS != nil {
			p.Domain = d.DNS.Domain
		}
		if p.Domain == nil {
			return nil, fmt.Errorf("'domain' is a required field for dns checks")
		}
		return probe.NewDNS(*p.Domain, nil), nil

	case "ssh":
		var p SSHParams
		if err := decodeParams(c.Params, &p); err != nil {
			return nil, err
		}
		if d.SSH != nil {
			if p.Hostname == nil {
				p.Hostname = d.SSH.Hostname
			}
			if p.Command == nil {
				p.Command = d.SSH.Command
			}
			if p.User == nil {
				p.User = d.SSH.User
			}
		}
		var errs error
		if p.Hostname == nil {
			errs = multierr.Append(errs, fmt.Errorf("'hostname' is a required field for ssh checks"))
		}
		if p.Command == nil {
			errs = multierr.Append(errs, fmt.Errorf("'command' is a required field for ssh checks"))
		}
		if errs != nil {
			return nil, errs
		}
		user := "root"
		if p.User != nil {
			user = *p.User
		}
		return probe.NewSSH(*p.Hostname, *p.Command, user), nil

	case "":
		return nil, fmt.Errorf("'type' is a required field")
	default:
		return nil, fmt.Errorf("unknown check type %q", c.Type)
	}
}

func decodeParams(n yaml.Node, out any) error {
	if n.Kind == 0 {
		return nil
	}
	return n.Decode(out)
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
