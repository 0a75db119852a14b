package api

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"

	"agentConsole/internal/api/middleware"
	"agentConsole/internal/platform"
)

// CollateralHandler 负责物料库的上传与浏览。
type CollateralHandler struct {
	platform  *platform.Client
	logger    *slog.Logger
	clamdAddr string
}

// NewCollateralHandler 构造物料处理器。clamdAddr 为空时跳过病毒扫描。
func NewCollateralHandler(platformClient *platform.Client, logger *slog.Logger, clamdAddr string) *CollateralHandler {
	return &CollateralHandler{
		platform:  platformClient,
		logger:    logger,
		clamdAddr: clamdAddr,
	}
}

// 单个物料文件的大小上限。
const maxCollateralBytes = 25 << 20

var allowedCollateralExtensions = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".mp4":  "video/mp4",
}

// Upload 接收一份物料文件，校验类型并扫描后转发给平台。
func (h *CollateralHandler) Upload(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	logger := middleware.LoggerFromContext(c)

	productName := c.PostForm("product_name")
	lob := c.PostForm("lob")
	if productName == "" || lob == "" {
		BadRequest(c, "missing product_name or lob")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}

	if file.Size > maxCollateralBytes {
		BadRequest(c, "file too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	expectedType, ok := allowedCollateralExtensions[ext]
	if !ok {
		BadRequest(c, "unsupported file type")
		return
	}
	if contentType := file.Header.Get("Content-Type"); contentType != "" && contentType != expectedType {
		BadRequest(c, "content type does not match file extension")
		return
	}

	if h.clamdAddr != "" {
		clamdClient := clamd.NewClamd(h.clamdAddr)

		fileReader, err := file.Open()
		if err != nil {
			Internal(c, "failed to open file")
			return
		}

		abortChan := make(chan bool)
		scanChan, err := clamdClient.ScanStream(fileReader, abortChan)
		fileReader.Close()
		if err != nil {
			logger.Error("scan file", slog.Any("error", err))
			Internal(c, "failed to scan file")
			return
		}
		defer close(abortChan)

		for result := range scanChan {
			if result.Status != clamd.RES_OK {
				logger.Warn("malicious upload rejected", slog.String("filename", file.Filename))
				BadRequest(c, "malicious file detected")
				return
			}
		}
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to reopen file")
		return
	}
	defer fileReader.Close()

	url, err := h.platform.UploadCollateral(c.Request.Context(), sess, fileReader, file.Filename, productName, lob)
	if err != nil {
		respondPlatformError(c, logger, "upload collateral", err)
		return
	}

	logger.Info("collateral uploaded",
		slog.String("filename", file.Filename),
		slog.String("product_name", productName),
	)
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// List 返回当前用户的物料库。
func (h *CollateralHandler) List(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	items, err := h.platform.ListCollateral(c.Request.Context(), sess, sess.User.ID)
	if err != nil {
		respondPlatformError(c, middleware.LoggerFromContext(c), "list collateral", err)
		return
	}
	if items == nil {
		items = []platform.Collateral{}
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
