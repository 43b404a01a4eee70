package mock

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gin-gonic/gin"
	cmdutil "github.com/kiosk404/mahiro-adapter/internal/mahiroctl/cmd/util"
	"github.com/kiosk404/mahiro-adapter/pkg/logger"
	"github.com/spf13/cobra"
)

// Options holds the flags of the 'mock' sub command.
type Options struct {
	Addr         string
	Favorability float64
	Attitude     string
	ForceStatus  int
	Latency      time.Duration
	Malformed    bool
}

// NewCmdMock returns the 'mock' sub command: a stand-in companion bot that
// serves GET /get_info with deterministic favorability scores, for local
// development and for exercising the adapter's failure handling.
func NewCmdMock() *cobra.Command {
	o := &Options{}

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run a mock companion bot API server",
		Long: heredoc.Doc(`
			Run a mock companion bot serving GET /get_info.

			By default every user gets a deterministic favorability score derived
			from the user ID, so repeated probes are stable. Flags can pin the
			score and attitude, inject latency, force an HTTP status, or return
			a malformed body to exercise the adapter's error handling.`),
		Example: heredoc.Doc(`
			# Serve deterministic scores on the default address
			mahiroctl mock

			# Always answer with a fixed score after 2s of latency
			mahiroctl mock --favorability 80 --attitude friendly --latency 2s

			# Answer every request with HTTP 500
			mahiroctl mock --status 500`),
		Run: func(cmd *cobra.Command, args []string) {
			cmdutil.CheckErr(o.Run(cmd.Context()))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.Addr, "addr", "127.0.0.1:9900", "Listen address (host:port).")
	flags.Float64Var(&o.Favorability, "favorability", -1, "Fixed favorability score, -1 for deterministic per-user scores.")
	flags.StringVar(&o.Attitude, "attitude", "", "Fixed attitude, empty to derive from the score.")
	flags.IntVar(&o.ForceStatus, "status", 0, "Force this HTTP status on every response, 0 to disable.")
	flags.DurationVar(&o.Latency, "latency", 0, "Artificial latency added to every response.")
	flags.BoolVar(&o.Malformed, "malformed", false, "Return a malformed JSON body.")

	return cmd
}

// Run starts the mock server and blocks until interrupted.
func (o *Options) Run(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/get_info", o.handleGetInfo)

	srv := &http.Server{
		Addr:    o.Addr,
		Handler: router,
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[Mock] companion bot listening on http://%s", o.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mock server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("[Mock] shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("mock server shutdown failed: %w", err)
		}
	}

	return nil
}

func (o *Options) handleGetInfo(c *gin.Context) {
	if o.Latency > 0 {
		time.Sleep(o.Latency)
	}
	if o.ForceStatus != 0 {
		c.Status(o.ForceStatus)
		return
	}
	if o.Malformed {
		c.String(http.StatusOK, "{favorability:")
		return
	}

	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_id"})
		return
	}

	score := o.Favorability
	if score < 0 {
		score = deterministicScore(userID)
	}
	attitude := o.Attitude
	if attitude == "" {
		attitude = attitudeFor(score)
	}

	logger.Debug("[Mock] get_info user_id=%s favorability=%.1f attitude=%s", userID, score, attitude)
	c.JSON(http.StatusOK, gin.H{
		"favorability": score,
		"attitude":     attitude,
	})
}

// deterministicScore maps a user ID to a stable score in [0, 100].
func deterministicScore(userID string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return float64(h.Sum32() % 101)
}

func attitudeFor(score float64) string {
	switch {
	case score < 20:
		return "cold"
	case score < 50:
		return "neutral"
	case score < 80:
		return "friendly"
	default:
		return "devoted"
	}
}
