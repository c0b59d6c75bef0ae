package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kvbsystems/kvbbackend/database"
	"github.com/kvbsystems/kvbbackend/dto"
	"github.com/kvbsystems/kvbbackend/models"
	"github.com/kvbsystems/kvbbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// authAccount is the slice of any principal document that the auth flow
// needs; all four principal collections share these fields.
type authAccount struct {
	ID           bson.ObjectID `bson:"_id"`
	Name         string        `bson:"name"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"passwordHash"`
	IsActive     bool          `bson:"isActive"`
}

func currentUserID(c *gin.Context) (bson.ObjectID, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return bson.ObjectID{}, false
	}
	id, err := bson.ObjectIDFromHex(v.(string))
	if err != nil {
		return bson.ObjectID{}, false
	}
	return id, true
}

func currentStaffRef(c *gin.Context) *models.StaffRef {
	id, ok := currentUserID(c)
	if !ok {
		return nil
	}
	roleVal, _ := c.Get("role")
	role, _ := roleVal.(string)
	return &models.StaffRef{Kind: models.Role(role), ID: id}
}

// Login authenticates against the collection belonging to the role and
// drops the access token in that role's cookie.
func Login(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		col := database.OpenCollection(models.CollectionForRole(role))
		email := strings.ToLower(strings.TrimSpace(body.Email))

		var acct authAccount
		if err := col.FindOne(c.Request.Context(), bson.M{"email": email}).Decode(&acct); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if err := utils.CheckPassword(acct.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if !acct.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}

		accessToken, err := utils.GenerateAccessToken(acct.ID.Hex(), acct.Email, string(role), utils.AccessTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(acct.ID.Hex())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
			return
		}

		refreshTokensCol := database.OpenCollection("refresh_tokens")
		now := time.Now().UTC()
		result, err := refreshTokensCol.InsertOne(c.Request.Context(), models.RefreshToken{
			UserID:    acct.ID,
			Role:      role,
			TokenHash: refreshToken,
			ExpiresAt: now.Add(utils.RefreshTTL()),
			CreatedAt: now,
		})
		if err != nil || result.InsertedID == nil {
			log.Print("refresh token insert failed: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "connection failed"})
			return
		}

		utils.SetAccessCookie(c, role, accessToken)
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     "refreshToken",
			Value:    refreshToken,
			Path:     "/auth/refresh",
			MaxAge:   int(utils.RefreshTTL().Seconds()),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode, // for cross-site
		})
		c.JSON(http.StatusOK, gin.H{
			"id":    acct.ID,
			"name":  acct.Name,
			"email": acct.Email,
			"role":  role,
		})
	}
}

func Refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		refreshCol := database.OpenCollection("refresh_tokens")

		hash, err := c.Cookie("refreshToken")
		if err != nil || hash == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing refresh token"})
			return
		}
		var rt models.RefreshToken
		err = refreshCol.FindOne(ctx, bson.M{
			"tokenHash": hash,
			"revokedAt": bson.M{"$exists": false},
			"expiresAt": bson.M{"$gt": time.Now().UTC()},
		}).Decode(&rt)

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		col := database.OpenCollection(models.CollectionForRole(rt.Role))
		var acct authAccount
		if err := col.FindOne(ctx, bson.M{"_id": rt.UserID}).Decode(&acct); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			return
		}
		if !acct.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}

		// Rotate refresh token
		newHash, err := utils.GenerateRefreshToken(acct.ID.Hex())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
			return
		}

		now := time.Now().UTC()

		_, err = refreshCol.UpdateByID(ctx, rt.ID, bson.M{
			"$set": bson.M{
				"revokedAt":  now,
				"replacedBy": newHash,
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke refresh token"})
			return
		}

		_, err = refreshCol.InsertOne(ctx, models.RefreshToken{
			UserID:    acct.ID,
			Role:      rt.Role,
			TokenHash: newHash,
			ExpiresAt: now.Add(utils.RefreshTTL()),
			CreatedAt: now,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store refresh token"})
			return
		}

		accessToken, err := utils.GenerateAccessToken(acct.ID.Hex(), acct.Email, string(rt.Role), utils.AccessTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
			return
		}

		utils.SetAccessCookie(c, rt.Role, accessToken)
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     "refreshToken",
			Value:    newHash,
			Path:     "/auth/refresh",
			MaxAge:   int(utils.RefreshTTL().Seconds()),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		})
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func Logout(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		refreshCol := database.OpenCollection("refresh_tokens")

		hash, _ := c.Cookie("refreshToken")
		utils.ClearRefreshCookie(c)
		utils.ClearAccessCookie(c, role)

		// best effort revoke
		if hash != "" {
			now := time.Now().UTC()
			_, _ = refreshCol.UpdateOne(ctx, bson.M{
				"tokenHash": hash,
				"revokedAt": bson.M{"$exists": false},
			}, bson.M{
				"$set": bson.M{"revokedAt": now},
			})
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func RevokeAllRefreshTokens(c *gin.Context, userID bson.ObjectID) error {
	refreshCol := database.OpenCollection("refresh_tokens")
	now := time.Now().UTC()
	_, err := refreshCol.UpdateMany(c.Request.Context(), bson.M{
		"userId":    userID,
		"revokedAt": bson.M{"$exists": false},
	}, bson.M{
		"$set": bson.M{"revokedAt": now},
	})
	return err
}

// GetMyProfile returns the caller's own account document. The password
// hash stays out of the payload via the model's json tags.
func GetMyProfile(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		col := database.OpenCollection(models.CollectionForRole(role))

		switch role {
		case models.RoleCustomer:
			var customer models.Customer
			if err := col.FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&customer); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
				return
			}
			c.JSON(http.StatusOK, customer)
		case models.RoleWorker:
			var worker models.Worker
			if err := col.FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&worker); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
				return
			}
			c.JSON(http.StatusOK, worker)
		case models.RoleSales:
			var sales models.SalesUser
			if err := col.FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&sales); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
				return
			}
			c.JSON(http.StatusOK, sales)
		default:
			var admin models.Admin
			if err := col.FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&admin); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
				return
			}
			c.JSON(http.StatusOK, admin)
		}
	}
}

// POST /auth/customer/register — public signup for customers only; staff
// accounts are opened by an admin.
func RegisterCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterCustomerDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		now := time.Now().UTC()
		customer := models.Customer{
			ID:           bson.NewObjectID(),
			Name:         strings.TrimSpace(body.Name),
			Email:        email,
			Phone:        strings.TrimSpace(body.Phone),
			Address:      strings.TrimSpace(body.Address),
			Region:       strings.TrimSpace(body.Region),
			PasswordHash: hash,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		customersCol := database.OpenCollection("customers")
		if _, err := customersCol.InsertOne(c.Request.Context(), customer); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, customer)
	}
}

// POST /auth/:role/me/password
func ChangeMyPassword(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		col := database.OpenCollection(models.CollectionForRole(role))

		var acct authAccount
		if err := col.FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&acct); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			return
		}

		if err := utils.CheckPassword(acct.PasswordHash, body.CurrentPassword); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
			return
		}

		newHash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		now := time.Now().UTC()
		_, err = col.UpdateByID(c.Request.Context(), userID, bson.M{
			"$set": bson.M{
				"passwordHash": newHash,
				"updatedAt":    now,
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		_ = RevokeAllRefreshTokens(c, userID)
		utils.ClearRefreshCookie(c)
		utils.ClearAccessCookie(c, role)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
