package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"3s"`, want: 3 * time.Second},
		{name: "nanoseconds", in: `1500000000`, want: 1500 * time.Millisecond},
		{name: "null", in: `null`, want: 0},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var v struct {
		A Duration `yaml:"a"`
		B Duration `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 10s\nb: 2000\n"), &v))
	assert.Equal(t, 10*time.Second, v.A.Duration)
	assert.Equal(t, 2000*time.Nanosecond, v.B.Duration)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}

func TestFixedClock(t *testing.T) {
	start := time.Unix(1_700_000_000, 900_000_000)
	c := NewFixedClock(start)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, int64(1_700_000_000), UnixNow(c))

	c.Advance(time.Minute)
	assert.Equal(t, int64(1_700_000_060), UnixNow(c))
}

func TestSystemClock_IsCurrent(t *testing.T) {
	before := time.Now()
	got := SystemClock{}.Now()
	assert.False(t, got.Before(before))
}
