package service

import (
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"
)

// CategoryService 分类服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService 创建分类服务实例
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List 分类列表
func (s *CategoryService) List() ([]models.Category, error) {
	return s.categoryRepo.List()
}

// GetBySlug 根据 slug 获取分类
func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// Create 创建分类
func (s *CategoryService) Create(category *models.Category) error {
	count, err := s.categoryRepo.CountBySlug(category.Slug, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	return s.categoryRepo.Create(category)
}

// Update 更新分类
func (s *CategoryService) Update(category *models.Category) error {
	existing, err := s.categoryRepo.GetByID(category.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	count, err := s.categoryRepo.CountBySlug(category.Slug, &category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	return s.categoryRepo.Update(category)
}

// Delete 删除分类
func (s *CategoryService) Delete(id uint) error {
	return s.categoryRepo.Delete(id)
}
