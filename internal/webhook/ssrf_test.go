package webhook

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/macward/vibemcp/internal/errors"
)

func TestValidateURLRejectsBadScheme(t *testing.T) {
	err := validateURL("ftp://example.com/hook")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInputInvalid, apperr.KindOf(err))
}

func TestValidateURLRejectsBlockedHostnameLiteral(t *testing.T) {
	for _, host := range []string{"localhost", "127.0.0.1", "0.0.0.0", "metadata.google.internal"} {
		err := validateURL("http://" + host + "/hook")
		require.Error(t, err, host)
		assert.Equal(t, apperr.KindInputInvalid, apperr.KindOf(err))
	}
}

func TestValidateURLRejectsLiteralPrivateIP(t *testing.T) {
	err := validateURL("http://10.0.0.5/hook")
	require.Error(t, err)
}

func TestValidateURLAllowsPublicIP(t *testing.T) {
	err := validateURL("https://93.184.216.34/hook")
	require.NoError(t, err)
}

func TestValidateURLRejectsResolvedPrivateRange(t *testing.T) {
	orig := resolveFunc
	resolveFunc = func(host string) ([]net.IP, error) {
		return []net.IP{net.ParseIP("172.16.5.5")}, nil
	}
	defer func() { resolveFunc = orig }()

	err := validateURL("https://internal.example.com/hook")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInputInvalid, apperr.KindOf(err))
}

func TestValidateURLTreatsDNSFailureAsTolerated(t *testing.T) {
	orig := resolveFunc
	resolveFunc = func(host string) ([]net.IP, error) {
		return nil, &net.DNSError{Err: "no such host", Name: host}
	}
	defer func() { resolveFunc = orig }()

	err := validateURL("https://unresolvable.example.com/hook")
	require.NoError(t, err)
}
