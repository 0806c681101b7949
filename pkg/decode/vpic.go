package decode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vinscope/vinscope/pkg/shared/httputil"
	"github.com/vinscope/vinscope/pkg/shared/stringutil"
)

const defaultVPICBaseURL = "https://vpic.nhtsa.dot.gov/api"

// Config controls the vPIC client.
type Config struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

// WithDefaults fills in zero-valued fields and returns the config.
func (c *Config) WithDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = defaultVPICBaseURL
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = 30
	}
	return c
}

// ApplyEnvDefaults overlays environment variables on cfg and returns the
// config with defaults applied.
func ApplyEnvDefaults(cfg *Config) *Config {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.BaseURL = stringutil.EnvOr(cfg.BaseURL, os.Getenv("VPIC_BASE_URL"))
	return cfg.WithDefaults()
}

// VPICClient implements Decoder against the NHTSA vPIC flat-format API.
// The registry needs no credential.
type VPICClient struct {
	cfg *Config
	log zerolog.Logger
}

// NewVPICClient builds a client from cfg.
func NewVPICClient(cfg *Config, log zerolog.Logger) *VPICClient {
	return &VPICClient{
		cfg: cfg.WithDefaults(),
		log: log.With().Str("component", "vpic").Logger(),
	}
}

// vPIC marks undecoded fields with sentinel strings rather than omitting
// them.
var absentValues = map[string]bool{
	"":               true,
	"Not Applicable": true,
	"Not Available":  true,
}

// Decode calls DecodeVinValues and extracts the first result entry. Absent
// attributes stay empty; only transport and payload failures are errors.
func (c *VPICClient) Decode(ctx context.Context, vin string) (Facts, error) {
	decodeURL := fmt.Sprintf("%s/vehicles/DecodeVinValues/%s?format=json",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(vin))

	data, err := httputil.GetJSON(ctx, decodeURL, nil, c.cfg.TimeoutSecs)
	if err != nil {
		return Facts{}, err
	}

	var resp struct {
		Results []struct {
			Make         string `json:"Make"`
			Model        string `json:"Model"`
			ModelYear    string `json:"ModelYear"`
			BodyClass    string `json:"BodyClass"`
			VehicleType  string `json:"VehicleType"`
			PlantCountry string `json:"PlantCountry"`
		} `json:"Results"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return Facts{}, fmt.Errorf("vpic: decoding response: %w", err)
	}
	if len(resp.Results) == 0 {
		c.log.Debug().Str("vin", vin).Msg("vpic returned no result entries")
		return Facts{}, nil
	}

	first := resp.Results[0]
	facts := Facts{
		Make:         present(first.Make),
		Model:        present(first.Model),
		ModelYear:    present(first.ModelYear),
		BodyClass:    present(first.BodyClass),
		VehicleType:  present(first.VehicleType),
		PlantCountry: present(first.PlantCountry),
	}
	c.log.Debug().Str("vin", vin).Bool("decoded", !facts.IsZero()).Msg("vpic decode complete")
	return facts, nil
}

func present(value string) string {
	value = strings.TrimSpace(value)
	if absentValues[value] {
		return ""
	}
	return value
}
