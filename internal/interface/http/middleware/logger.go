package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 超过该耗时记为慢请求
const slowRequestThreshold = 3 * time.Second

// RequestHeaderID 请求ID响应头，客户端已带上时沿用
const RequestHeaderID = "X-Request-ID"

// Logger 请求日志中间件
// 生成请求ID写入Context和响应头，请求结束后输出方法、路径、状态码和耗时，不记录请求体
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestHeaderID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestHeaderID, requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if staffID := GetStaffID(c); staffID != 0 {
			fields = append(fields, zap.Uint("staff_id", staffID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("HTTP请求", fields...)
		case latency > slowRequestThreshold:
			logger.Warn("慢请求", fields...)
		default:
			logger.Info("HTTP请求", fields...)
		}
	}
}
