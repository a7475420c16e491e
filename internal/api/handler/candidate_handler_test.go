package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"resume-analyzer-go/internal/api/handler"
	"resume-analyzer-go/internal/api/router"
	"resume-analyzer-go/internal/config"
	"resume-analyzer-go/internal/parser"
	"resume-analyzer-go/internal/processor"
	"resume-analyzer-go/internal/storage"
	"resume-analyzer-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughTextSource 直接把上传字节当作已提取文本返回，
// 让测试可以通过文件内容精确控制后续的字段提取输入
type passthroughTextSource struct{}

func (passthroughTextSource) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, error) {
	return string(data), nil
}

func newTestServer(t *testing.T) *server.Hertz {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Address = "127.0.0.1:0"
	cfg.Upload.MaxSizeMB = 16
	storageManager := &storage.Storage{Candidates: storage.NewCandidateStore()}

	textExtractor, err := parser.NewTextExtractor(
		context.Background(),
		parser.WithPDFSource(passthroughTextSource{}),
		parser.WithDocxSource(passthroughTextSource{}),
	)
	require.NoError(t, err)

	candidateProcessor, err := processor.NewCandidateProcessor(
		context.Background(),
		storageManager,
		processor.WithTextExtractor(textExtractor),
	)
	require.NoError(t, err)

	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	router.RegisterRoutes(h, handler.NewCandidateHandler(cfg, storageManager, candidateProcessor))
	return h
}

func createUploadForm(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func uploadResumes(t *testing.T, h *server.Hertz, files map[string][]byte) handler.UploadResponse {
	t.Helper()

	body, contentType := createUploadForm(t, files)
	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/candidates/upload",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: contentType},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	var uploadResp handler.UploadResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &uploadResp))
	return uploadResp
}

func TestHandleHealth(t *testing.T) {
	h := newTestServer(t)

	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.NotEmpty(t, health["message"])
}

func TestHandleUpload(t *testing.T) {
	h := newTestServer(t)

	t.Run("处理多个文件并提取字段", func(t *testing.T) {
		uploadResp := uploadResumes(t, h, map[string][]byte{
			"jane.pdf": []byte("5 years experience Python Bachelor degree jane@x.com 555-1234"),
		})

		require.Len(t, uploadResp.Candidates, 1)
		candidate := uploadResp.Candidates[0]
		assert.Equal(t, "jane.pdf", candidate.Filename)
		assert.Equal(t, []string{"Python"}, candidate.Skills)
		assert.Equal(t, 5, candidate.ExperienceYears)
		assert.Equal(t, types.EducationBachelor, candidate.Education)
		require.NotNil(t, candidate.Email)
		assert.Equal(t, "jane@x.com", *candidate.Email)
	})

	t.Run("不支持的扩展名被跳过", func(t *testing.T) {
		uploadResp := uploadResumes(t, h, map[string][]byte{
			"notes.txt": []byte("plain text resume"),
		})

		assert.Empty(t, uploadResp.Candidates)
		require.Len(t, uploadResp.Skipped, 1)
		assert.Equal(t, "notes.txt", uploadResp.Skipped[0].Filename)
	})

	t.Run("缺少files字段返回400", func(t *testing.T) {
		body := new(bytes.Buffer)
		writer := multipart.NewWriter(body)
		require.NoError(t, writer.Close())

		resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/candidates/upload",
			&ut.Body{Body: body, Len: body.Len()},
			ut.Header{Key: "Content-Type", Value: writer.FormDataContentType()},
		)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestHandleSearch(t *testing.T) {
	h := newTestServer(t)

	t.Run("空库返回空结果而非错误", func(t *testing.T) {
		body := bytes.NewBufferString(`{"query":"python developer"}`)
		resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/candidates/search",
			&ut.Body{Body: body, Len: body.Len()},
			ut.Header{Key: "Content-Type", Value: "application/json"},
		)
		require.Equal(t, http.StatusOK, resp.Code, "空库检索应正常返回")

		var searchResp handler.SearchResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &searchResp))
		assert.Equal(t, 0, searchResp.Total)
		assert.Empty(t, searchResp.Results)
	})

	uploadResumes(t, h, map[string][]byte{
		"musician.pdf": []byte("violin orchestra sonata performer"),
		"dev.pdf":      []byte("python django developer with aws experience"),
	})

	t.Run("按匹配度降序返回全部候选人", func(t *testing.T) {
		body := bytes.NewBufferString(`{"query":"python developer"}`)
		resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/candidates/search",
			&ut.Body{Body: body, Len: body.Len()},
			ut.Header{Key: "Content-Type", Value: "application/json"},
		)
		require.Equal(t, http.StatusOK, resp.Code)

		var searchResp handler.SearchResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &searchResp))

		assert.Equal(t, 2, searchResp.Total, "全部候选人都应参与排序")
		require.Len(t, searchResp.Results, 2)
		assert.Equal(t, "dev.pdf", searchResp.Results[0].Filename, "匹配度高的候选人应排第一")
		assert.GreaterOrEqual(t, searchResp.Results[0].MatchScore, searchResp.Results[1].MatchScore)
	})

	t.Run("同时提供时以job_description为打分文本", func(t *testing.T) {
		// query仅作必填校验与回显，排序依据是职位描述
		body := bytes.NewBufferString(`{"query":"python developer","job_description":"violin orchestra sonata"}`)
		resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/candidates/search",
			&ut.Body{Body: body, Len: body.Len()},
			ut.Header{Key: "Content-Type", Value: "application/json"},
		)
		require.Equal(t, http.StatusOK, resp.Code)

		var searchResp handler.SearchResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &searchResp))
		require.Len(t, searchResp.Results, 2)
		assert.Equal(t, "musician.pdf", searchResp.Results[0].Filename, "应按职位描述而非query排序")
		assert.Equal(t, "python developer", searchResp.Query, "响应应回显query")
	})

	t.Run("缺少query返回400", func(t *testing.T) {
		for _, payload := range []string{`{}`, `{"job_description":"python developer"}`} {
			body := bytes.NewBufferString(payload)
			resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/candidates/search",
				&ut.Body{Body: body, Len: body.Len()},
				ut.Header{Key: "Content-Type", Value: "application/json"},
			)
			assert.Equal(t, http.StatusBadRequest, resp.Code, "payload %s 应被拒绝", payload)
		}
	})

	t.Run("非法JSON返回400", func(t *testing.T) {
		body := bytes.NewBufferString(`{"query":`)
		resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/candidates/search",
			&ut.Body{Body: body, Len: body.Len()},
			ut.Header{Key: "Content-Type", Value: "application/json"},
		)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestHandleAnalytics(t *testing.T) {
	h := newTestServer(t)

	t.Run("空库返回404", func(t *testing.T) {
		resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/candidates/analytics", nil)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	uploadResumes(t, h, map[string][]byte{
		"a.pdf": []byte("3 years experience Python Master degree"),
	})
	uploadResumes(t, h, map[string][]byte{
		"b.pdf": []byte("12 years experience Python Java PhD"),
	})

	t.Run("返回全库统计", func(t *testing.T) {
		resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/candidates/analytics", nil)
		require.Equal(t, http.StatusOK, resp.Code)

		var summary struct {
			TotalCandidates     int `json:"total_candidates"`
			ExperienceBreakdown struct {
				UpToFive int `json:"0-5"`
				SixToTen int `json:"5-10"`
				OverTen  int `json:"10+"`
			} `json:"experience_breakdown"`
			TopSkills []struct {
				Skill string `json:"skill"`
				Count int    `json:"count"`
			} `json:"top_skills"`
			Candidates []struct {
				ID          int    `json:"id"`
				Filename    string `json:"filename"`
				Experience  int    `json:"experience"`
				SkillsCount int    `json:"skills_count"`
			} `json:"candidates"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &summary))

		assert.Equal(t, 2, summary.TotalCandidates)
		assert.Equal(t, 1, summary.ExperienceBreakdown.UpToFive)
		assert.Equal(t, 1, summary.ExperienceBreakdown.OverTen)
		require.NotEmpty(t, summary.TopSkills)
		assert.Equal(t, "Python", summary.TopSkills[0].Skill, "出现最多的技能应排第一")
		assert.Equal(t, 2, summary.TopSkills[0].Count)

		require.Len(t, summary.Candidates, 2, "响应应包含全部候选人的概览")
		assert.Equal(t, 1, summary.Candidates[0].ID)
		assert.Equal(t, "a.pdf", summary.Candidates[0].Filename)
		assert.Equal(t, 3, summary.Candidates[0].Experience)
		assert.Equal(t, 1, summary.Candidates[0].SkillsCount)
	})
}

func TestHandleGetCandidate(t *testing.T) {
	h := newTestServer(t)

	uploadResp := uploadResumes(t, h, map[string][]byte{
		"jane.pdf": []byte("5 years experience Python"),
	})
	require.Len(t, uploadResp.Candidates, 1)
	id := uploadResp.Candidates[0].ID

	t.Run("命中", func(t *testing.T) {
		resp := ut.PerformRequest(h.Engine, "GET", fmt.Sprintf("/api/v1/candidates/%d", id), nil)
		require.Equal(t, http.StatusOK, resp.Code)

		var candidate handler.CandidateSummary
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &candidate))
		assert.Equal(t, "jane.pdf", candidate.Filename)
	})

	t.Run("未命中返回404", func(t *testing.T) {
		resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/candidates/999", nil)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("非整数ID返回400", func(t *testing.T) {
		resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/candidates/abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestHandleReset(t *testing.T) {
	h := newTestServer(t)

	uploadResumes(t, h, map[string][]byte{
		"jane.pdf": []byte("python developer"),
	})

	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/candidates/reset", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// 重置后统计接口应回到"无数据"状态
	resp = ut.PerformRequest(h.Engine, "GET", "/api/v1/candidates/analytics", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// 重新上传后ID重新从1开始
	uploadResp := uploadResumes(t, h, map[string][]byte{
		"new.pdf": []byte("java developer"),
	})
	require.Len(t, uploadResp.Candidates, 1)
	assert.Equal(t, 1, uploadResp.Candidates[0].ID)
}
