package util

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// ============ 密码哈希测试 ============

func TestHashPassword(t *testing.T) {
	password := "MyPassword123"

	// 测试正常哈希
	hashed, err := HashPasswordCost(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("哈希失败: %v", err)
	}
	if !strings.HasPrefix(hashed, "$2a$") {
		t.Errorf("哈希格式错误，应为 bcrypt: %s", hashed)
	}

	// 测试空密码
	_, err = HashPasswordCost("", bcrypt.MinCost)
	if err == nil {
		t.Error("空密码应返回错误")
	}

	// 测试相同密码生成不同哈希
	hashed2, _ := HashPasswordCost(password, bcrypt.MinCost)
	if hashed == hashed2 {
		t.Error("相同密码应生成不同哈希（随机salt）")
	}

	// cost 越界时使用默认值
	h, err := HashPasswordCost(password, 99)
	if err != nil {
		t.Fatalf("越界 cost 不应报错: %v", err)
	}
	if cost, _ := bcrypt.Cost([]byte(h)); cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, 期望 %d", cost, bcrypt.DefaultCost)
	}
}

func TestCheckPassword(t *testing.T) {
	password := "TestPass456"
	hashed, _ := HashPasswordCost(password, bcrypt.MinCost)

	// 测试正确密码
	if !CheckPassword(password, hashed) {
		t.Error("正确密码验证失败")
	}

	// 测试错误密码
	if CheckPassword("WrongPass", hashed) {
		t.Error("错误密码不应通过验证")
	}

	// 测试空输入
	if CheckPassword("", hashed) {
		t.Error("空密码不应通过验证")
	}
	if CheckPassword(password, "") {
		t.Error("空哈希不应通过验证")
	}

	// 测试无效格式（例如历史明文密码）
	if CheckPassword(password, password) {
		t.Error("明文存储的密码不应通过验证")
	}
}

// ============ AES 加密测试 ============

func TestEncryptDecryptAES(t *testing.T) {
	key := "test-encryption-key"

	testCases := []string{
		"Hello World",
		"中文测试",
		"",
		"Special!@#$%^&*()",
		strings.Repeat("A", 1000),
	}

	for _, plaintext := range testCases {
		encrypted, err := EncryptAES(key, []byte(plaintext))
		if err != nil {
			t.Fatalf("加密失败 '%s': %v", plaintext, err)
		}

		decrypted, err := DecryptAES(key, encrypted)
		if err != nil {
			t.Fatalf("解密失败 '%s': %v", plaintext, err)
		}

		if string(decrypted) != plaintext {
			t.Errorf("数据不匹配\n期望: %s\n实际: %s", plaintext, string(decrypted))
		}
	}
}

func TestDecryptAES_WrongKey(t *testing.T) {
	encrypted, _ := EncryptAES("correct-key", []byte("Data"))

	if _, err := DecryptAES("wrong-key", encrypted); err == nil {
		t.Error("错误密钥应解密失败")
	}
	if _, err := DecryptAES("correct-key", []byte{1, 2, 3}); err == nil {
		t.Error("过短数据应返回错误")
	}
}

func TestEncryptString(t *testing.T) {
	key := "audit-key"
	action := "POST /api/cashflows {\"amount\":\"12.5\"}"

	enc, err := EncryptString(key, action)
	if err != nil {
		t.Fatalf("加密失败: %v", err)
	}
	if enc == action || strings.Contains(enc, "cashflows") {
		t.Error("密文不应包含明文")
	}

	dec, err := DecryptString(key, enc)
	if err != nil || dec != action {
		t.Errorf("解密结果 = %q, %v", dec, err)
	}

	// 没有配置密钥时原样返回
	if s, _ := EncryptString("", action); s != action {
		t.Error("空密钥应原样返回")
	}
	if _, err := DecryptString(key, "%%%"); err == nil {
		t.Error("非法 base64 应返回错误")
	}
}

// ============ 性能测试 ============

func BenchmarkEncryptAES(b *testing.B) {
	key := "bench-key"
	data := []byte("Benchmark data")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		EncryptAES(key, data)
	}
}
