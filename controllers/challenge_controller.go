// file: controllers/challenge_controller.go
package controllers

import (
	"ByteList/database"
	"ByteList/dto"
	"ByteList/mappers"
	"ByteList/models"
	"ByteList/utils"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// CreateChallenge —— 管理员发布挑战模板，使用 DTO + Normalize 兼容
func CreateChallenge(c *gin.Context) {
	var req dto.CreateChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()

	if req.Title == "" || req.DurationMinutes == 0 {
		utils.Error(c, 1001, "缺少必填字段")
		return
	}

	expireAt, err := req.ParseExpireAt()
	if err != nil {
		utils.Error(c, 1001, "expire_at 格式无效（需 RFC3339）")
		return
	}
	now := time.Now()
	if expireAt.IsZero() {
		expireAt = now.Add(models.DefaultChallengeTTL)
	}
	if !expireAt.After(now) {
		utils.Error(c, 1002, "expire_at 必须是将来的时间")
		return
	}

	userIDAny, exists := c.Get("user_id")
	if !exists {
		utils.Error(c, 4001, "未登录")
		return
	}

	sources, _ := json.Marshal(req.Sources)
	levels, _ := json.Marshal(req.ExperienceLevels)

	ch := models.Challenge{
		CreatorID:        userIDAny.(uint32),
		Title:            req.Title,
		Description:      req.Description,
		DurationMinutes:  req.DurationMinutes,
		Image:            req.Image,
		AttemptsAllowed:  req.AttemptsAllowed,
		Sources:          sources,
		ExperienceLevels: levels,
		ExpireAt:         expireAt,
	}
	if err := database.DB.Create(&ch).Error; err != nil {
		utils.Error(c, 5000, "创建挑战失败: "+err.Error())
		return
	}
	utils.Success(c, "Challenge created successfully", gin.H{"id": ch.ID})
}

// ListChallenges —— 仅返回未过期的挑战
func ListChallenges(c *gin.Context) {
	var challenges []models.Challenge
	err := database.DB.Where("expire_at > ?", time.Now()).
		Order("created_at DESC").
		Find(&challenges).Error
	if err != nil {
		utils.Error(c, 5000, "查询失败")
		return
	}

	items := make([]dto.ChallengeItemResp, 0, len(challenges))
	for _, ch := range challenges {
		items = append(items, mappers.MapChallengeToItemResp(ch))
	}

	utils.Success(c, "success", gin.H{
		"total":      len(items),
		"challenges": items,
	})
}

// GetChallengeDetail —— 挑战详情，过期视同不存在
func GetChallengeDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var challenge models.Challenge
	err := database.DB.Where("expire_at > ?", time.Now()).First(&challenge, id).Error
	if err != nil {
		utils.Error(c, 4004, "挑战不存在或已过期")
		return
	}

	utils.Success(c, "success", mappers.MapChallengeToDetailResp(challenge))
}
