// file: controllers/user_controller.go
package controllers

import (
	"ByteList/database"
	"ByteList/dto"
	"ByteList/models"
	"ByteList/utils"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register 用户注册
func Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()

	if req.Username == "" || req.Password == "" || req.Email == "" {
		utils.Error(c, 1001, "缺少必填字段")
		return
	}
	if len(req.Password) < 8 {
		utils.Error(c, 1002, "密码至少 8 位")
		return
	}

	user := models.User{
		Username:       req.Username,
		Password:       req.Password, // BeforeSave 钩子负责哈希
		Email:          req.Email,
		GithubUsername: req.GithubUsername,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(c, 4005, "用户名或邮箱已被注册")
			return
		}
		utils.Error(c, 5000, "注册失败: "+err.Error())
		return
	}

	utils.Success(c, "Registration successful", gin.H{"id": user.ID})
}

// Login 用户登录，成功返回 JWT
func Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(c, 4004, "用户名或密码错误")
		return
	}
	if !user.CheckPassword(req.Password) {
		utils.Error(c, 4004, "用户名或密码错误")
		return
	}
	if user.Status == models.StatusBanned {
		utils.Error(c, 4003, "账号已被封禁")
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.Error(c, 5000, "Token 生成失败")
		return
	}

	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"user": dto.UserResp{
			ID:             user.ID,
			Username:       user.Username,
			Email:          user.Email,
			AvatarURL:      user.AvatarURL,
			GithubUsername: user.GithubUsername,
			Bio:            user.Bio,
			Role:           string(user.Role),
		},
	})
}

// GetUserDetail 查询用户公开信息
func GetUserDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		utils.Error(c, 4004, "用户不存在")
		return
	}

	utils.Success(c, "success", dto.UserResp{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		AvatarURL:      user.AvatarURL,
		GithubUsername: user.GithubUsername,
		Bio:            user.Bio,
		Role:           string(user.Role),
	})
}
