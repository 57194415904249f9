package grpc_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	grpcpresentation "github.com/sairam-cyber/customer-churn-prediction-platform/internal/presentation/grpc"
	"github.com/sairam-cyber/customer-churn-prediction-platform/pkg/tlsutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serve starts srv on an in-memory listener and returns a connected client.
func serve(t *testing.T, srv *grpcpresentation.Server, creds credentials.TransportCredentials) healthpb.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(creds),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func TestServer_HealthCheck(t *testing.T) {
	srv, err := grpcpresentation.NewServer(grpcpresentation.ServerConfig{Reflection: true}, discardLogger())
	require.NoError(t, err)
	client := serve(t, srv, insecure.NewCredentials())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, service := range []string{"", grpcpresentation.ServiceName} {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	}

	_, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: "unknown.Service"})
	assert.Error(t, err)
}

func TestServer_TLS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, tlsutil.GenerateSelfSignedCert([]string{"bufnet"}, dir))

	srv, err := grpcpresentation.NewServer(grpcpresentation.ServerConfig{
		TLSCertFile: filepath.Join(dir, "server.pem"),
		TLSKeyFile:  filepath.Join(dir, "server-key.pem"),
	}, discardLogger())
	require.NoError(t, err)

	creds, err := tlsutil.ClientTLSConfig(filepath.Join(dir, "ca.pem"))
	require.NoError(t, err)
	client := serve(t, srv, creds)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestNewServer_BadTLSFiles(t *testing.T) {
	_, err := grpcpresentation.NewServer(grpcpresentation.ServerConfig{
		TLSCertFile: "missing.pem",
		TLSKeyFile:  "missing-key.pem",
	}, discardLogger())
	require.Error(t, err)
}
