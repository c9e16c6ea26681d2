package log

import (
	"bytes"
	"io"
	"net/http"
	"os"

	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger() (*zap.Logger, error) {

	config := zap.NewProductionEncoderConfig()

	config.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncodeTime = zapcore.ISO8601TimeEncoder

	writer := io.MultiWriter(os.Stdout)

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config),
		zapcore.AddSync(writer),
		zapcore.InfoLevel,
	)

	lgr := zap.New(core)

	return lgr, nil
}

// LoggingRoundTripper logs every outbound provider call with its timing.
type LoggingRoundTripper struct {
	Proxied http.RoundTripper
	Logger  *zap.Logger
}

func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {

	var reqBody []byte
	var err error
	if req.Body != nil {
		reqBody, err = io.ReadAll(req.Body)
		if err != nil {
			lrt.Logger.Error("Failed to read request body", zap.Error(err))
			return nil, err
		}
	}

	req.Body = io.NopCloser(bytes.NewBuffer(reqBody))

	lrt.Logger.Info("Started HTTP call",
		zap.String("Method", req.Method),
		zap.String("URL", req.URL.String()),
		zap.ByteString("Request body", reqBody),
	)
	start := time.Now()

	resp, err := lrt.Proxied.RoundTrip(req)
	if err != nil {
		lrt.Logger.Error("Request failed", zap.Error(err))
		return nil, err
	}

	duration := time.Since(start)
	var respBody []byte
	if resp != nil && resp.Body != nil {
		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			lrt.Logger.Error("Failed to read response body", zap.Error(err))
			return nil, err
		}

		// Provider error bodies are not always JSON, log them raw.
		lrt.Logger.Info("Incoming response",
			zap.String("Method", req.Method),
			zap.String("URL", req.URL.String()),
			zap.Int("Status", resp.StatusCode),
			zap.Duration("Duration", duration),
			zap.ByteString("Response body", respBody),
		)
	}

	resp.Body = io.NopCloser(bytes.NewBuffer(respBody))

	return resp, nil
}
