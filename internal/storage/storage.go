package storage

import "mime/multipart"

// Uploader 是媒体存储抽象：帖子图片和头像的上传与删除。
// Upload 返回可访问的 URL，DeleteFile 按上传时使用的对象路径删除
type Uploader interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
	DeleteFile(path string) error
}
