package httpserver

import (
	stdhttp "net/http"

	"github.com/bionicotaku/lingo-services-person/internal/controllers"
	"github.com/bionicotaku/lingo-services-person/internal/metadata"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// encodeError 在 kratos 默认错误编码之前补充 request_id。
// 优先复用 Handler 已写入响应头的 ID，其次是请求头，最后新生成。
func encodeError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	se := errors.FromError(err)

	requestID := w.Header().Get(controllers.HeaderRequestID)
	if requestID == "" {
		requestID = r.Header.Get(controllers.HeaderRequestID)
	}
	if requestID == "" {
		requestID = metadata.NewRequestID()
	}
	w.Header().Set(controllers.HeaderRequestID, requestID)

	md := make(map[string]string, len(se.Metadata)+1)
	for k, v := range se.Metadata {
		md[k] = v
	}
	md["request_id"] = requestID

	khttp.DefaultErrorEncoder(w, r, se.WithMetadata(md))
}
