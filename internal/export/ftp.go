package export

import (
	"context"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// UploadOptions configures the FTP delivery.
type UploadOptions struct {
	Username string
	Password string
	Timeout  time.Duration
}

// parseFTPURL extracts host (with port) and path from an FTP URL.
func parseFTPURL(rawURL string) (host string, path string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", eris.Wrap(err, "export: parse ftp url")
	}
	if u.Scheme != "ftp" {
		return "", "", eris.Errorf("export: expected ftp scheme, got %q", u.Scheme)
	}

	host = u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}

	path = u.Path
	if path == "" {
		return "", "", eris.New("export: empty path in ftp url")
	}

	return host, path, nil
}

// Upload stores the reader's contents at the path named by ftpURL
// (ftp://host[:port]/path). Anonymous login is used when no credentials
// are given.
func Upload(ctx context.Context, ftpURL string, r io.Reader, opts UploadOptions) error {
	host, path, err := parseFTPURL(ftpURL)
	if err != nil {
		return err
	}

	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	user, pass := opts.Username, opts.Password
	if user == "" {
		user, pass = "anonymous", "anonymous@"
	}

	zap.L().Debug("export: ftp connecting", zap.String("host", host), zap.String("path", path))

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return eris.Wrap(err, "export: ftp dial")
	}

	if err := conn.Login(user, pass); err != nil {
		conn.Quit()
		return eris.Wrap(err, "export: ftp login")
	}

	if err := conn.Stor(path, r); err != nil {
		conn.Quit()
		return eris.Wrap(err, "export: ftp store")
	}

	if err := conn.Quit(); err != nil {
		return eris.Wrap(err, "export: ftp quit")
	}
	return nil
}
