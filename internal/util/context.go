package util

import (
	"github.com/gin-gonic/gin"

	"github.com/teamtacles/teamtacles-api/dao/model"
	"github.com/teamtacles/teamtacles-api/internal/policy"
)

const (
	UserIDKey   = "x-user-id"
	UsernameKey = "x-user-name"
	RolesKey    = "x-user-roles"

	// RawTokenKey keeps the verified bearer token so outbound calls to the
	// task service can forward the caller's credential.
	RawTokenKey = "x-raw-token"
)

func SetJWTContext(c *gin.Context, msg JWTMessage, rawToken string) {
	c.Set(UserIDKey, msg.UserID)
	c.Set(UsernameKey, msg.Username)
	c.Set(RolesKey, msg.Roles)
	c.Set(RawTokenKey, rawToken)
}

func GetToken(ctx *gin.Context) JWTMessage {
	var msg JWTMessage
	msg.UserID = ctx.GetUint(UserIDKey)
	msg.Username = ctx.GetString(UsernameKey)

	roles, _ := ctx.Get(RolesKey)
	if roles != nil {
		msg.Roles = roles.([]model.RoleName)
	}
	return msg
}

func GetRawToken(ctx *gin.Context) string {
	return ctx.GetString(RawTokenKey)
}

// GetPrincipal converts the verified token into the policy's principal view.
func GetPrincipal(ctx *gin.Context) policy.Principal {
	msg := GetToken(ctx)
	return policy.Principal{
		UserID:   msg.UserID,
		Username: msg.Username,
		Roles:    msg.Roles,
	}
}
