package handler

import (
	"strings"

	"habittracker/repository"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
)

// GenerateTOTPSecretHandler creates a fresh TOTP secret the client enrolls
// in an authenticator app. Nothing is stored until the code is verified.
func GenerateTOTPSecretHandler(c *gin.Context) {
	userID, _ := c.Get("user_id")

	userRepo := repository.GetUserRepo(utils.MongoClient)
	user, err := userRepo.FindUser(c.Request.Context(), userID.(string))
	if err != nil {
		utils.StoreUnavailable(c)
		return
	}
	if user == nil {
		utils.NotFound(c, utils.CodeUserNotFound, "User not found")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      utils.TokenIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		utils.InternalError(c, "Failed to generate 2FA secret")
		return
	}

	utils.Success(c, gin.H{
		"secret": key.Secret(),
		"url":    key.URL(),
	})
}

func Enable2FAHandler(c *gin.Context) {
	var req struct {
		Secret string `json:"secret" binding:"required"`
		Code   string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.CodeInvalidRequest, "Secret and code are required")
		return
	}

	userID, _ := c.Get("user_id")
	userRepo := repository.GetUserRepo(utils.MongoClient)

	user, err := userRepo.FindUser(c.Request.Context(), userID.(string))
	if err != nil {
		utils.StoreUnavailable(c)
		return
	}
	if user == nil {
		utils.NotFound(c, utils.CodeUserNotFound, "User not found")
		return
	}
	if user.TwoFactorEnabled {
		utils.BadRequest(c, utils.CodeInvalidRequest, "2FA is already enabled")
		return
	}

	if !totp.Validate(req.Code, req.Secret) {
		utils.BadRequest(c, utils.CodeInvalidRequest, "Invalid 2FA code")
		return
	}

	recoveryCodes, err := utils.GenerateRecoveryCodes()
	if err != nil {
		utils.InternalError(c, "Failed to generate recovery codes")
		return
	}

	if err := userRepo.Enable2FA(c.Request.Context(), userID.(string), req.Secret,
		utils.HashRecoveryCodes(recoveryCodes)); err != nil {
		utils.StoreUnavailable(c)
		return
	}

	utils.Success(c, gin.H{
		"message":        "2FA enabled successfully",
		"recovery_codes": recoveryCodes,
		"warning":        "Save these recovery codes securely. They will not be shown again.",
	})
}

func Disable2FAHandler(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.CodeInvalidRequest, "Code is required")
		return
	}

	userID, _ := c.Get("user_id")
	userRepo := repository.GetUserRepo(utils.MongoClient)

	user, err := userRepo.FindUser(c.Request.Context(), userID.(string))
	if err != nil {
		utils.StoreUnavailable(c)
		return
	}
	if user == nil {
		utils.NotFound(c, utils.CodeUserNotFound, "User not found")
		return
	}
	if !user.TwoFactorEnabled {
		utils.BadRequest(c, utils.CodeInvalidRequest, "2FA is not enabled")
		return
	}

	// Accept a current TOTP code or an unused recovery code
	valid := totp.Validate(req.Code, user.TwoFactorSecret)
	if !valid {
		normalized := strings.ToUpper(strings.ReplaceAll(req.Code, "-", ""))
		hashed := utils.HashString(normalized)
		for _, stored := range user.RecoveryCodes {
			if stored == hashed {
				valid = true
				break
			}
		}
	}
	if !valid {
		utils.Unauthorized(c, "Invalid 2FA or recovery code")
		return
	}

	if err := userRepo.Disable2FA(c.Request.Context(), userID.(string)); err != nil {
		utils.StoreUnavailable(c)
		return
	}

	utils.Success(c, gin.H{"message": "2FA disabled successfully"})
}
