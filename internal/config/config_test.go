package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{in: "thursday", want: time.Thursday},
		{in: "Thu", want: time.Thursday},
		{in: " SUNDAY ", want: time.Sunday},
		{in: "4", want: time.Thursday},
		{in: "0", want: time.Sunday},
		{in: "7", wantErr: true},
		{in: "someday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("FACILITY_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, time.Thursday, cfg.CoworkingBlackout)
	assert.Equal(t, "UTC", cfg.FacilityLocation.String())
	assert.Equal(t, 15*time.Minute, cfg.CompletionSweepInterval)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "reservations", cfg.KafkaTopic)
}

func TestLoadKafkaBrokers(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_DSN")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("COMPLETION_INTERVAL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "COMPLETION_INTERVAL")
}
