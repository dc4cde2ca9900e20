package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "keeps allowed short flags with values",
			args:    []string{"-a", ":8080", "-x", "junk", "-d", "dsn"},
			allowed: []string{"-a", "-d"},
			want:    []string{"-a", ":8080", "-d", "dsn"},
		},
		{
			name:    "keeps equals form",
			args:    []string{"--config=/etc/auth.json", "-a=:9090", "-b=nope"},
			allowed: []string{"--config", "-a"},
			want:    []string{"--config=/etc/auth.json", "-a=:9090"},
		},
		{
			name:    "boolean flag without value",
			args:    []string{"-t", "-a", ":8080"},
			allowed: []string{"-t"},
			want:    []string{"-t"},
		},
		{
			name:    "empty input",
			args:    nil,
			allowed: []string{"-a"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"app", "-c", "short.json"}
	assert.Equal(t, "short.json", JsonConfigFlags())

	os.Args = []string{"app", "--config=long.json"}
	assert.Equal(t, "long.json", JsonConfigFlags())

	os.Args = []string{"app", "-c", "short.json", "--config=long.json"}
	assert.Equal(t, "long.json", JsonConfigFlags(), "the long form wins")

	os.Args = []string{"app"}
	assert.Empty(t, JsonConfigFlags())
}
