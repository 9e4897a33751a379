package tui

import (
	"context"
	"fmt"
	"log"
	"net"

	"remitiq/internal/repository"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	gossh "golang.org/x/crypto/ssh"
)

// ServerConfig holds the SSH listener settings.
type ServerConfig struct {
	Bind        string
	Port        int
	HostKeyPath string
}

// UserStore resolves registered SSH users by key fingerprint.
// Registration is optional; unknown keys get an anonymous session.
type UserStore interface {
	FindByFingerprint(ctx context.Context, fingerprint string) (*repository.SSHUser, error)
	TouchLogin(ctx context.Context, userID int64) error
}

// NewSSHServer builds a wish server that serves the dashboard TUI over
// SSH. Any public key is accepted; a fingerprint match against the user
// store personalizes the session and pins the advisor chat history.
func NewSSHServer(
	cfg ServerConfig,
	users UserStore,
	intelligence IntelligenceQuerier,
	providers ProviderQuerier,
	advisor AdvisorQuerier,
) (*ssh.Server, error) {
	teaHandler := func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		svc := Services{
			Intelligence: intelligence,
			Providers:    providers,
			Advisor:      advisor,
			Username:     s.User(),
		}

		if users != nil && s.PublicKey() != nil {
			fingerprint := gossh.FingerprintSHA256(s.PublicKey())
			user, err := users.FindByFingerprint(s.Context(), fingerprint)
			if err != nil {
				log.Printf("ssh user lookup failed for %s: %v", fingerprint, err)
			} else if user != nil {
				svc.UserID = user.ID
				svc.DefaultAmount = user.DefaultAmountAUD
				if user.DisplayName != "" {
					svc.Username = user.DisplayName
				}
				if err := users.TouchLogin(s.Context(), user.ID); err != nil {
					log.Printf("ssh last-login update failed for user %d: %v", user.ID, err)
				}
			}
		}

		return NewAppModel(svc), []tea.ProgramOption{tea.WithAltScreen()}
	}

	return wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Bind, fmt.Sprintf("%d", cfg.Port))),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithPublicKeyAuth(func(ssh.Context, ssh.PublicKey) bool { return true }),
		wish.WithMiddleware(
			bubbletea.Middleware(teaHandler),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
}
