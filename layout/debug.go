package layout

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

var errNoImageSizer = errors.New("测量器不支持读取图片尺寸")

// Snapshot 把每一页绘制到 Recorder，返回可序列化的结果。
func Snapshot(d *FormattedDocument) (*Result, error) {
	if d == nil {
		return nil, errors.New("排版结果为空")
	}
	res := &Result{Meta: d.doc.Info, Bookmarks: d.Bookmarks()}
	rec := NewRecorder(d.ctx.Measurer)
	for n := 1; n <= d.PageCount(); n++ {
		info, _ := d.Page(n)
		rec.Reset(info, d.FieldInfos(n))
		if err := d.RenderPage(n, rec); err != nil {
			return nil, errors.Wrapf(err, "绘制第 %d 页", n)
		}
		res.Pages = append(res.Pages, rec.Page())
	}
	return res, nil
}

// WriteDebugJSON 将绘制结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(d *FormattedDocument, path string) error {
	res, err := Snapshot(d)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, "序列化调试结果")
	}
	return os.WriteFile(path, data, 0o644)
}
