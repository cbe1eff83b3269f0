package inventory

import (
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
)

// 库存领域错误
var (
	ErrItemNotFound      = apperrors.New(apperrors.ErrCodeItemNotFound, "库存商品不存在")
	ErrSKUDuplicate      = apperrors.New(apperrors.ErrCodeSKUDuplicate, "SKU已存在")
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	ErrInvalidQuantity  = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")
	ErrInvalidStock     = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")
	ErrInvalidSKU       = apperrors.New(apperrors.ErrCodeInvalidParams, "SKU不能为空且不超过50个字符")
	ErrInvalidName      = apperrors.New(apperrors.ErrCodeInvalidParams, "名称不能为空且不超过100个字符")
	ErrInvalidGrainType = apperrors.New(apperrors.ErrCodeInvalidParams, "咖啡豆类型必须是AR、RO或BL")
)
