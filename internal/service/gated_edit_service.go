package service

import (
	"crypto/subtle"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/constants"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/logger"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/models"
	"github.com/bagocfsa/shukrullahProduction-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 各实体类型允许受控变更的字段
var gatedEditableFields = map[string]map[string]bool{
	constants.AuditEntityProduct: {
		"price_amount": true,
		"stock_qty":    true,
		"is_active":    true,
	},
	constants.AuditEntityZone: {
		"base_rate":    true,
		"display_name": true,
		"is_active":    true,
	},
}

var errUnknownEntityType = errors.New("unknown entity type")
var errFieldNotEditable = errors.New("field not editable")

// PendingEdit 暂存的受控变更
type PendingEdit struct {
	Handle       string                 `json:"handle"`
	EntityType   string                 `json:"entity_type"`
	EntityID     uint                   `json:"entity_id"`
	FieldChanges map[string]interface{} `json:"field_changes"`
	RequestedBy  string                 `json:"requested_by"`
	RequestedAt  time.Time              `json:"requested_at"`
}

// GatedEditService 受控变更服务
// 变更先暂存，凭带外分发的确认码提交；目标实体只在 Confirm 成功时被修改，
// 每次提交追加一条审计记录。同一实体重复暂存时后者覆盖前者。
type GatedEditService struct {
	accessCode  string
	productRepo repository.ProductRepository
	zoneRepo    repository.DeliveryZoneRepository
	auditRepo   repository.AuditEntryRepository

	mu     sync.Mutex
	staged map[string]*PendingEdit // handle -> 暂存变更
	slots  map[string]string       // entityType:entityID -> handle
}

// NewGatedEditService 创建受控变更服务实例
func NewGatedEditService(
	accessCode string,
	productRepo repository.ProductRepository,
	zoneRepo repository.DeliveryZoneRepository,
	auditRepo repository.AuditEntryRepository,
) *GatedEditService {
	return &GatedEditService{
		accessCode:  accessCode,
		productRepo: productRepo,
		zoneRepo:    zoneRepo,
		auditRepo:   auditRepo,
		staged:      make(map[string]*PendingEdit),
		slots:       make(map[string]string),
	}
}

// Propose 暂存一笔受控变更，返回句柄；不修改目标实体
func (s *GatedEditService) Propose(entityType string, entityID uint, changes map[string]interface{}, requestedBy string) (*PendingEdit, error) {
	editable, ok := gatedEditableFields[entityType]
	if !ok {
		return nil, errUnknownEntityType
	}
	if len(changes) == 0 {
		return nil, errFieldNotEditable
	}
	for field := range changes {
		if !editable[field] {
			return nil, errFieldNotEditable
		}
	}
	if err := s.checkEntityExists(entityType, entityID); err != nil {
		return nil, err
	}

	edit := &PendingEdit{
		Handle:       uuid.NewString(),
		EntityType:   entityType,
		EntityID:     entityID,
		FieldChanges: changes,
		RequestedBy:  requestedBy,
		RequestedAt:  time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	slot := slotKey(entityType, entityID)
	// 同实体的旧暂存被新暂存覆盖
	if previous, ok := s.slots[slot]; ok {
		delete(s.staged, previous)
	}
	s.staged[edit.Handle] = edit
	s.slots[slot] = edit.Handle

	logger.Infow("gated_edit_proposed",
		"handle", edit.Handle,
		"entity_type", entityType,
		"entity_id", entityID,
		"requested_by", requestedBy,
	)
	return edit, nil
}

// Confirm 校验确认码并提交暂存变更
// 确认码错误时不丢弃暂存，可无限次重试；成功时原子应用全部字段并追加审计记录。
// 暂存在持锁状态下先被取走，同一句柄并发确认只有一个提交者，其余得到 ErrStaleEdit。
func (s *GatedEditService) Confirm(handle, code, requestID string) error {
	s.mu.Lock()
	edit, ok := s.staged[handle]
	if !ok {
		s.mu.Unlock()
		return ErrStaleEdit
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(s.accessCode)) != 1 {
		s.mu.Unlock()
		logger.Warnw("gated_edit_code_rejected",
			"handle", handle,
			"entity_type", edit.EntityType,
			"entity_id", edit.EntityID,
		)
		return ErrConfirmationCode
	}

	slot := slotKey(edit.EntityType, edit.EntityID)
	delete(s.staged, handle)
	if s.slots[slot] == handle {
		delete(s.slots, slot)
	}
	s.mu.Unlock()

	if err := s.apply(edit, requestID); err != nil {
		// 应用失败时放回暂存供重试；期间若有新提案占用槽位则不覆盖
		s.mu.Lock()
		if _, taken := s.slots[slot]; !taken {
			s.staged[handle] = edit
			s.slots[slot] = handle
		}
		s.mu.Unlock()
		return err
	}

	logger.Infow("gated_edit_committed",
		"handle", handle,
		"entity_type", edit.EntityType,
		"entity_id", edit.EntityID,
	)
	return nil
}

// Cancel 丢弃暂存变更，无副作用
func (s *GatedEditService) Cancel(handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	edit, ok := s.staged[handle]
	if !ok {
		return ErrStaleEdit
	}
	delete(s.staged, handle)
	if s.slots[slotKey(edit.EntityType, edit.EntityID)] == handle {
		delete(s.slots, slotKey(edit.EntityType, edit.EntityID))
	}
	return nil
}

// Pending 列出当前暂存的变更
func (s *GatedEditService) Pending() []PendingEdit {
	s.mu.Lock()
	defer s.mu.Unlock()
	edits := make([]PendingEdit, 0, len(s.staged))
	for _, edit := range s.staged {
		edits = append(edits, *edit)
	}
	return edits
}

func (s *GatedEditService) apply(edit *PendingEdit, requestID string) error {
	entry := &models.AuditEntry{
		EntityType:       edit.EntityType,
		EntityID:         edit.EntityID,
		OperatorUsername: edit.RequestedBy,
		ChangeJSON:       models.JSON(edit.FieldChanges),
		RequestID:        requestID,
		CommittedAt:      time.Now(),
	}

	switch edit.EntityType {
	case constants.AuditEntityProduct:
		return s.productRepo.Transaction(func(tx *gorm.DB) error {
			if err := s.productRepo.WithTx(tx).UpdateFields(edit.EntityID, edit.FieldChanges); err != nil {
				return err
			}
			return s.auditRepo.WithTx(tx).Append(entry)
		})
	case constants.AuditEntityZone:
		return s.productRepo.Transaction(func(tx *gorm.DB) error {
			if err := s.zoneRepo.WithTx(tx).UpdateFields(edit.EntityID, edit.FieldChanges); err != nil {
				return err
			}
			return s.auditRepo.WithTx(tx).Append(entry)
		})
	default:
		return errUnknownEntityType
	}
}

func (s *GatedEditService) checkEntityExists(entityType string, entityID uint) error {
	switch entityType {
	case constants.AuditEntityProduct:
		product, err := s.productRepo.GetByID(entityID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
	case constants.AuditEntityZone:
		zone, err := s.zoneRepo.GetByID(entityID)
		if err != nil {
			return err
		}
		if zone == nil {
			return ErrZoneNotFound
		}
	}
	return nil
}

func slotKey(entityType string, entityID uint) string {
	return entityType + ":" + strconv.FormatUint(uint64(entityID), 10)
}
