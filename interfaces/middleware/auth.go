package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"clipcast/domain/dto"
	"clipcast/domain/model"
	"clipcast/infrastructure/configuration"
	"clipcast/infrastructure/logger"
)

// Auth validates the bearer token and sets user_id in the gin context. Only
// the authenticated user identity is consumed here; user management itself
// belongs to the surrounding product.
func Auth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res := dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"}

		// Browser-navigated endpoints (the authorization start redirect)
		// cannot set headers; they pass the token as a query parameter.
		raw := ctx.Query("access_token")
		if authorization := ctx.Request.Header.Get("Authorization"); authorization != "" {
			parts := strings.SplitN(authorization, "Bearer ", 2)
			if len(parts) != 2 || parts[1] == "" {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
				return
			}
			raw = parts[1]
		}
		if raw == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		var claims model.UserClaims
		token, err := jwt.ParseWithClaims(
			raw,
			&claims,
			func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(configuration.C.App.SecretKey), nil
			},
		)
		if err != nil || !token.Valid {
			var ve *jwt.ValidationError
			if errors.As(err, &ve) && ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
				res.ResponseMessage = "Token expired"
			}
			logger.GetLogger().WithField("path", ctx.FullPath()).Info("rejected bearer token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		if claims.Issuer == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		ctx.Set("user_id", claims.Issuer)
		ctx.Next()
	}
}
