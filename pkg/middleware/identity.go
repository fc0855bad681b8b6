package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wyfcoding/merchantrisk/pkg/logger"
)

// ReviewerKey gin context 中已认证审核人身份的键
const ReviewerKey = "reviewer"

var errMissingSubject = errors.New("token has no subject claim")

// Identity 解析当前请求的审核人身份并写入 gin context。
// 配置了 jwtSecret 时从 Bearer token 的 sub claim 解析；
// 未配置时（dev 环境）退化为读取 X-Reviewer 请求头。
// 本中间件只解析不拦截，需要身份的 handler 自行校验。
func Identity(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSecret == "" {
			if reviewer := c.GetHeader("X-Reviewer"); reviewer != "" {
				c.Set(ReviewerKey, reviewer)
			}
			c.Next()
			return
		}

		reviewer, err := reviewerFromBearer(c.GetHeader("Authorization"), jwtSecret)
		if err != nil {
			logger.Warn(c.Request.Context(), "Failed to resolve reviewer identity", "error", err)
		} else {
			c.Set(ReviewerKey, reviewer)
		}
		c.Next()
	}
}

// Reviewer 返回当前请求已解析的审核人身份
func Reviewer(c *gin.Context) string {
	reviewer, _ := c.Get(ReviewerKey)
	s, _ := reviewer.(string)
	return s
}

func reviewerFromBearer(header, secret string) (string, error) {
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return "", errors.New("missing bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", errMissingSubject
	}
	return subject, nil
}
