package runner

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const waitInterval = 500 * time.Millisecond

// waitForService polls url until it answers with any HTTP status or timeout
// elapses. A service that answers 404 or 500 is up; only transport errors
// count as not ready.
func (r *Runner) waitForService(url string, timeout time.Duration) error {
	r.logger.Info("Waiting for service", zap.String("url", url), zap.Duration("timeout", timeout))

	deadline := time.Now().Add(timeout)
	client := &http.Client{
		Timeout: 5 * time.Second, // Per-request timeout
	}
	defer client.CloseIdleConnections()

	var lastErr error
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err != nil {
			lastErr = err
			time.Sleep(waitInterval)
			continue
		}
		resp.Body.Close()
		r.logger.Info("Service is ready", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return nil
	}

	return fmt.Errorf("service %s not ready after %v: %v", url, timeout, lastErr)
}
