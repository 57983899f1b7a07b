// file: controllers/artifact_controller.go
package controllers

import (
	"ByteList/database"
	"ByteList/dto"
	"ByteList/mappers"
	"ByteList/models"
	"ByteList/services"
	"ByteList/utils"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CreateArtifact —— 提交作品，可选携带 task_id 完成对应任务
func CreateArtifact(c *gin.Context) {
	var req dto.CreateArtifactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()

	if req.Title == "" || req.GithubURL == "" {
		utils.Error(c, 1001, "缺少必填字段")
		return
	}
	if _, _, err := services.ParseRepoURL(req.GithubURL); err != nil {
		utils.Error(c, 1002, "github_url 无效: "+err.Error())
		return
	}

	userIDAny, exists := c.Get("user_id")
	if !exists {
		utils.Error(c, 4001, "未登录")
		return
	}

	tags, _ := json.Marshal(req.Tags)
	post, err := services.SubmitArtifact(userIDAny.(uint32), services.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        tags,
		GithubURL:   req.GithubURL,
		LiveURL:     req.LiveURL,
		Image:       req.Image,
		TaskID:      req.TaskID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateSubmission):
			utils.Error(c, 6004, err.Error())
		case errors.Is(err, services.ErrTaskNotFound):
			utils.Error(c, 4004, err.Error())
		case errors.Is(err, services.ErrUnauthorized):
			utils.Error(c, 4003, err.Error())
		case errors.Is(err, services.ErrTaskDisabled):
			utils.Error(c, 6003, err.Error())
		default:
			utils.Error(c, 5000, "提交失败: "+err.Error())
		}
		return
	}

	utils.Success(c, "Artifact submitted successfully", mappers.MapPostToDetailResp(*post, 0, 0))
}

// ListArtifacts —— 作品列表（分页）
func ListArtifacts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	if err := database.DB.Model(&models.RepoPost{}).Count(&total).Error; err != nil {
		utils.Error(c, 5000, "查询失败")
		return
	}

	var posts []models.RepoPost
	err := database.DB.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		utils.Error(c, 5000, "查询失败")
		return
	}

	items := make([]dto.ArtifactItemResp, 0, len(posts))
	for _, p := range posts {
		likes, dislikes, _ := services.VoteCounts(p.ID)
		items = append(items, mappers.MapPostToItemResp(p, likes, dislikes))
	}

	utils.Success(c, "success", gin.H{
		"total":     total,
		"page":      page,
		"limit":     limit,
		"artifacts": items,
	})
}

// GetArtifactDetail —— 作品详情
func GetArtifactDetail(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var post models.RepoPost
	if err := database.DB.First(&post, id).Error; err != nil {
		utils.Error(c, 4004, "作品不存在")
		return
	}

	likes, dislikes, _ := services.VoteCounts(post.ID)
	utils.Success(c, "success", mappers.MapPostToDetailResp(post, likes, dislikes))
}

// VoteArtifact —— 点赞/点踩（互斥）或撤票
func VoteArtifact(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req dto.VoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	userIDAny, exists := c.Get("user_id")
	if !exists {
		utils.Error(c, 4001, "未登录")
		return
	}

	if err := services.VoteOnPost(userIDAny.(uint32), id, req.Value); err != nil {
		switch {
		case errors.Is(err, services.ErrArtifactNotFound):
			utils.Error(c, 4004, err.Error())
		case errors.Is(err, services.ErrInvalidVote):
			utils.Error(c, 1002, err.Error())
		default:
			utils.Error(c, 5000, "投票失败: "+err.Error())
		}
		return
	}

	likes, dislikes, _ := services.VoteCounts(id)
	utils.Success(c, "Vote recorded", gin.H{"likes": likes, "dislikes": dislikes})
}

// AnalyzeArtifact —— 手动触发 AI 分析；?force=1 强制重跑
func AnalyzeArtifact(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	force := c.Query("force") == "1"
	if !force {
		var req dto.AnalyzeReq
		if c.ShouldBindJSON(&req) == nil {
			force = req.Force
		}
	}

	job, err := services.EnqueueAnalysis(id, force)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrArtifactNotFound):
			utils.Error(c, 4004, err.Error())
		case errors.Is(err, services.ErrAlreadyAnalyzed):
			utils.Error(c, 7001, err.Error())
		case errors.Is(err, services.ErrAnalysisInFlight):
			utils.Error(c, 7002, err.Error())
		default:
			utils.Error(c, 5000, "分析任务创建失败: "+err.Error())
		}
		return
	}

	utils.Success(c, "Analysis scheduled", gin.H{"job_id": job.ID})
}

// GetArtifactAnalysis —— 查询分析结果；未评分返回 4004（"没有记录"即"尚未分析"）
func GetArtifactAnalysis(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	rc, err := services.GetAnalysis(id)
	if err != nil {
		if errors.Is(err, services.ErrArtifactNotFound) {
			utils.Error(c, 4004, "该作品尚未完成分析")
			return
		}
		utils.Error(c, 5000, "查询失败")
		return
	}

	utils.Success(c, "success", mappers.MapContextToAnalysisResp(*rc))
}
