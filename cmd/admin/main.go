package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"agentConsole/internal/platform"
)

func main() {
	var (
		email      = flag.String("email", "", "新账号邮箱（必填）")
		fullName   = flag.String("full-name", "", "新账号姓名（必填）")
		userType   = flag.String("user-type", "agent", "账号类型（可选，默认 agent）")
		lob        = flag.String("lob", "", "业务线（可选）")
		products   = flag.String("products", "", "产品列表，逗号分隔（可选）")
		adminEmail = flag.String("admin-email", "", "管理员邮箱（可选，默认读 ADMIN_EMAIL）")
		adminPass  = flag.String("admin-password", "", "管理员密码（可选，默认读 ADMIN_PASSWORD）")
		baseURL    = flag.String("platform-url", "", "平台地址（可选，默认读 PLATFORM_BASE_URL）")
	)
	flag.Parse()

	e := strings.TrimSpace(*email)
	if e == "" {
		log.Fatal("missing required flag: --email")
	}
	name := strings.TrimSpace(*fullName)
	if name == "" {
		log.Fatal("missing required flag: --full-name")
	}

	url, err := resolvePlatformURL(*baseURL)
	if err != nil {
		log.Fatalf("resolve platform url: %v", err)
	}
	adminE, adminP, err := resolveAdminCredentials(*adminEmail, *adminPass)
	if err != nil {
		log.Fatalf("resolve admin credentials: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := platform.NewClient(url, resolveTimeout(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sess, err := client.Login(ctx, adminE, adminP)
	if err != nil {
		log.Fatalf("admin login: %v", err)
	}

	password, err := generateRandomPassword(24)
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}

	newUser := platform.NewUser{
		Email:    e,
		FullName: name,
		Password: password,
		UserType: strings.TrimSpace(*userType),
		LOB:      strings.TrimSpace(*lob),
	}
	if trimmed := strings.TrimSpace(*products); trimmed != "" {
		for _, p := range strings.Split(trimmed, ",") {
			if p = strings.TrimSpace(p); p != "" {
				newUser.Products = append(newUser.Products, p)
			}
		}
	}

	if err := client.CreateUser(ctx, sess, newUser); err != nil {
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("已创建账号：\n")
	fmt.Printf("邮箱: %s\n", e)
	fmt.Printf("初始密码: %s\n", password)
	fmt.Printf("提示：请立即登录并修改密码（该密码仅显示一次）。\n")
}

func resolvePlatformURL(flagValue string) (string, error) {
	url := strings.TrimSpace(flagValue)
	if url == "" {
		url = strings.TrimSpace(os.Getenv("PLATFORM_BASE_URL"))
	}
	if url == "" {
		return "", errors.New("platform url is required (PLATFORM_BASE_URL)")
	}
	return url, nil
}

func resolveAdminCredentials(email, password string) (string, string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		email = strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	}
	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}
	if email == "" {
		return "", "", errors.New("admin email is required (ADMIN_EMAIL)")
	}
	if password == "" {
		return "", "", errors.New("admin password is required (ADMIN_PASSWORD)")
	}
	return email, password, nil
}

func resolveTimeout() time.Duration {
	if env := strings.TrimSpace(os.Getenv("PLATFORM_TIMEOUT_SECONDS")); env != "" {
		if seconds, err := strconv.Atoi(env); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 5 * time.Second
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 24
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
