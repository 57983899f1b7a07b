// file: controllers/task_controller.go
package controllers

import (
	"ByteList/dto"
	"ByteList/mappers"
	"ByteList/services"
	"ByteList/utils"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// taskErrorCode 把服务层的哨兵错误映射为响应码
func taskErrorCode(err error) (int, bool) {
	switch {
	case errors.Is(err, services.ErrChallengeNotFound):
		return 4004, true
	case errors.Is(err, services.ErrTaskNotFound):
		return 4004, true
	case errors.Is(err, services.ErrUnauthorized):
		return 4003, true
	case errors.Is(err, services.ErrAlreadyClaimed):
		return 6001, true
	case errors.Is(err, services.ErrAttemptsExhausted):
		return 6002, true
	case errors.Is(err, services.ErrTaskDisabled):
		return 6003, true
	}
	return 0, false
}

// ClaimTask —— 认领挑战，生成（或恢复）个人任务
func ClaimTask(c *gin.Context) {
	challengeID, _ := strconv.Atoi(c.Param("id"))
	if challengeID <= 0 {
		utils.Error(c, 1001, "挑战 ID 无效")
		return
	}

	userIDAny, exists := c.Get("user_id")
	if !exists {
		utils.Error(c, 4001, "未登录")
		return
	}

	task, err := services.ClaimTask(userIDAny.(uint32), uint32(challengeID))
	if err != nil {
		if code, ok := taskErrorCode(err); ok {
			utils.Error(c, code, err.Error())
			return
		}
		utils.Error(c, 5000, "认领失败: "+err.Error())
		return
	}

	utils.Success(c, "Task claimed successfully", mappers.MapTaskToDetailResp(*task))
}

// AbandonTask —— 放弃任务（消耗一次尝试）
func AbandonTask(c *gin.Context) {
	taskID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if taskID == 0 {
		utils.Error(c, 1001, "任务 ID 无效")
		return
	}

	userIDAny, exists := c.Get("user_id")
	if !exists {
		utils.Error(c, 4001, "未登录")
		return
	}

	task, err := services.AbandonTask(userIDAny.(uint32), taskID)
	if err != nil {
		if code, ok := taskErrorCode(err); ok {
			utils.Error(c, code, err.Error())
			return
		}
		utils.Error(c, 5000, "操作失败: "+err.Error())
		return
	}

	msg := "Task abandoned"
	if task.IsPermanentlyDisabled {
		msg = "Task abandoned, attempts exhausted"
	}
	utils.Success(c, msg, mappers.MapTaskToItemResp(*task))
}

// ListMyTasks —— 当前用户的任务列表；?all=1 时包含软隐藏的
func ListMyTasks(c *gin.Context) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		utils.Error(c, 4001, "未登录")
		return
	}

	includeRemoved := c.Query("all") == "1"
	tasks, err := services.ListTasks(userIDAny.(uint32), includeRemoved)
	if err != nil {
		utils.Error(c, 5000, "查询失败")
		return
	}

	items := make([]dto.TaskItemResp, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, mappers.MapTaskToItemResp(t))
	}
	utils.Success(c, "success", gin.H{"total": len(items), "tasks": items})
}

// GetTaskDetail —— 任务详情（仅限所有者）
func GetTaskDetail(c *gin.Context) {
	taskID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	userIDAny, exists := c.Get("user_id")
	if !exists {
		utils.Error(c, 4001, "未登录")
		return
	}

	task, err := services.GetTask(userIDAny.(uint32), taskID)
	if err != nil {
		if code, ok := taskErrorCode(err); ok {
			utils.Error(c, code, err.Error())
			return
		}
		utils.Error(c, 5000, "查询失败")
		return
	}
	utils.Success(c, "success", mappers.MapTaskToDetailResp(*task))
}

// AppendTaskProgress —— 追加进度标记
func AppendTaskProgress(c *gin.Context) {
	taskID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req dto.ProgressReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Step == "" {
		utils.Error(c, 1001, "进度内容不能为空")
		return
	}

	userIDAny, exists := c.Get("user_id")
	if !exists {
		utils.Error(c, 4001, "未登录")
		return
	}

	task, err := services.AppendProgress(userIDAny.(uint32), taskID, req.Step)
	if err != nil {
		if code, ok := taskErrorCode(err); ok {
			utils.Error(c, code, err.Error())
			return
		}
		utils.Error(c, 5000, "操作失败: "+err.Error())
		return
	}
	utils.Success(c, "Progress recorded", mappers.MapTaskToDetailResp(*task))
}
