package service

import (
	"devtrack_backend/internal/model"
	"devtrack_backend/internal/repository"
	"devtrack_backend/internal/util"
)

type RoadmapService struct {
	RoadmapRepo *repository.RoadmapRepository
}

func NewRoadmapService(roadmapRepo *repository.RoadmapRepository) *RoadmapService {
	return &RoadmapService{RoadmapRepo: roadmapRepo}
}

func (s *RoadmapService) Get(userID uint) (*model.RoadmapView, error) {
	progress, err := s.RoadmapRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return BuildRoadmapView(progress), nil
}

func (s *RoadmapService) Update(userID uint, topic string, progress int) (*model.RoadmapView, error) {
	canonical := model.CanonicalRoadmapTopic(topic)
	if canonical == "" {
		return nil, util.ErrUnknownRoadmapTopic
	}
	if progress < 0 || progress > 100 {
		return nil, util.ErrInvalidProgress
	}
	if err := s.RoadmapRepo.Upsert(&model.RoadmapProgress{UserID: userID, Topic: canonical, Progress: progress}); err != nil {
		return nil, err
	}
	return s.Get(userID)
}

// BuildRoadmapView 补齐未记录的节点，保持固定顺序
func BuildRoadmapView(progress []model.RoadmapProgress) *model.RoadmapView {
	byTopic := make(map[string]int, len(progress))
	for _, p := range progress {
		if t := model.CanonicalRoadmapTopic(p.Topic); t != "" {
			byTopic[t] = p.Progress
		}
	}
	view := &model.RoadmapView{Items: make([]model.RoadmapItem, 0, len(model.RoadmapTopics))}
	for _, t := range model.RoadmapTopics {
		view.Items = append(view.Items, model.RoadmapItem{Topic: t, Progress: byTopic[t]})
	}
	view.Completion = RoadmapCompletion(progress)
	return view
}
