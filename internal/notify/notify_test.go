package notify

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty url", cfg: Config{Event: "catalog:updated"}, wantErr: "url must not be empty"},
		{name: "empty event", cfg: Config{URL: "http://localhost:3000"}, wantErr: "event must not be empty"},
		{name: "missing host", cfg: Config{URL: "localhost", Event: "e"}, wantErr: "scheme and host"},
		{name: "bad url", cfg: Config{URL: "http://[::1", Event: "e"}, wantErr: "failed to parse URL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	n, err := New(Config{URL: "http://localhost:3000/custom/socket.io/", Event: "catalog:updated"})

	require.NoError(t, err)
	require.Equal(t, "/", n.cfg.Namespace)
	require.Equal(t, DefaultTimeout, n.cfg.Timeout)
	require.Equal(t, "http://localhost:3000", n.baseURL)
	require.Equal(t, "/custom/socket.io/", n.path)
}

func TestPayload_Fields(t *testing.T) {
	got := Payload{PatternCount: 3, GeneratedBy: "patternindex"}.fields()

	require.Equal(t, map[string]any{
		"patternCount": 3,
		"generatedBy":  "patternindex",
		"outputs":      []string{},
	}, got)
}

func TestNotify_UnreachableEndpoint(t *testing.T) {
	// --- Arrange ---
	// Reserve a port and release it so nothing is listening there.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	n, err := New(Config{URL: "http://" + addr, Event: "catalog:updated", Timeout: 500 * time.Millisecond})
	require.NoError(t, err)
	defer n.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// --- Act ---
	err = n.Notify(ctx, Payload{PatternCount: 1})

	// --- Assert ---
	require.Error(t, err)
	require.Nil(t, n.client)
}

func TestNotifier_CloseWithoutConnection(t *testing.T) {
	n, err := New(Config{URL: "http://localhost:3000", Event: "catalog:updated"})
	require.NoError(t, err)

	require.NoError(t, n.Close())
}
