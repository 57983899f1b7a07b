// file: mappers/artifact_mapper.go
package mappers

import (
	"ByteList/dto"
	"ByteList/models"
	"time"
)

func MapPostToItemResp(p models.RepoPost, likes int64, dislikes int64) dto.ArtifactItemResp {
	return dto.ArtifactItemResp{
		ID:        p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Tags:      decodeStrings(p.Tags),
		GithubURL: p.GithubURL,
		LiveURL:   p.LiveURL,
		Image:     p.Image,
		ShareSlug: p.ShareSlug,
		TaskID:    p.TaskID,
		Likes:     likes,
		Dislikes:  dislikes,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func MapPostToDetailResp(p models.RepoPost, likes int64, dislikes int64) dto.ArtifactDetailResp {
	return dto.ArtifactDetailResp{
		ArtifactItemResp: MapPostToItemResp(p, likes, dislikes),
		Description:      p.Description,
	}
}

func MapContextToAnalysisResp(rc models.RepoContext) dto.AnalysisResp {
	metrics := make(map[string]float64, len(rc.Metrics))
	for name, v := range rc.Metrics {
		if f, ok := v.(float64); ok {
			metrics[name] = f
		}
	}
	return dto.AnalysisResp{
		RepoPostID:        rc.RepoPostID,
		AISummary:         rc.AISummary,
		Metrics:           metrics,
		Strengths:         decodeStrings(rc.Strengths),
		Suggestions:       decodeStrings(rc.Suggestions),
		Improvements:      decodeStrings(rc.Improvements),
		ExperienceLevel:   rc.ExperienceLevel,
		OverallScore:      rc.OverallScore,
		BeatingPercentage: rc.BeatingPercentage,
		Provider:          rc.Provider,
		UpdatedAt:         rc.UpdatedAt.Format(time.RFC3339),
	}
}
