package paas

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ctxKey int

const clientCtxKey ctxKey = 1

func WithClient(ctx context.Context, c *Client) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, clientCtxKey, c)
}

func ClientFromContext(ctx context.Context) *Client {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(clientCtxKey).(*Client)
	return c
}

func InjectClientMiddleware(p *Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil && c.Request != nil {
			c.Request = c.Request.WithContext(WithClient(c.Request.Context(), p))
		}
		c.Next()
	}
}

// LogBestEffort writes one audit entry with its own short deadline, so a
// cancelled caller context still gets its entry. Failures are only logged.
func (c *Client) LogBestEffort(action, level string, details map[string]any, logger *zap.Logger) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := c.CreateLog(ctx, CreateLogRequest{
		Agent:    c.agent(),
		Action:   action,
		Level:    level,
		Details:  details,
		Metadata: map[string]any{},
	})
	if err != nil && logger != nil {
		logger.Debug("paas audit log failed", zap.String("action", action), zap.Error(err))
	}
}
