package util

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"cash-flow/internal/finance"
)

const (
	MinPasswordLength = 8
	MaxCategoryLength = 64
	MaxRemarkLength   = 255
)

// ValidateEmail 验证邮箱格式
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return fmt.Errorf("invalid email address %q", email)
	}
	return nil
}

// ValidatePassword 验证密码长度（至少 8 位）
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateRegistration 验证注册表单：邮箱格式、密码长度、两次密码一致
func ValidateRegistration(email, password, confirm string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}

// ValidateDate 验证日期格式（必须为 YYYY-MM-DD）
func ValidateDate(dateStr string) (finance.Day, error) {
	if dateStr == "" {
		return finance.Day{}, fmt.Errorf("date is empty")
	}
	d, err := finance.ParseDay(dateStr)
	if err != nil {
		return finance.Day{}, err
	}
	if d.String() != dateStr {
		return finance.Day{}, fmt.Errorf("invalid date format %q, want YYYY-MM-DD", dateStr)
	}
	return d, nil
}

// ValidateCategory 验证分类（不能为空且长度合理）
func ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("category is empty")
	}
	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return fmt.Errorf("category too long, max %d characters", MaxCategoryLength)
	}
	return nil
}

// ValidateRemark 验证备注长度
func ValidateRemark(remark string) error {
	if utf8.RuneCountInString(remark) > MaxRemarkLength {
		return fmt.Errorf("remark too long, max %d characters", MaxRemarkLength)
	}
	return nil
}
