package admin

import (
	"fmt"
	"time"

	"github.com/minhloc/listquery/core/schema"
	"github.com/minhloc/listquery/utils"
)

// Seed holds the demo records of every collection.
type Seed struct {
	Customers    []Customer
	ActivityLogs []ActivityLog
	Positions    []JobPosition
	Applications []JobApplication
	Roles        []UserRole
}

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 9, 0, 0, 0, time.UTC)
}

func at(hour, minute int) time.Time {
	return time.Date(2024, time.June, 1, hour, minute, 0, 0, time.UTC)
}

// SeedRecords returns the demo data used by the CLI and the tests.
func SeedRecords() Seed {
	return Seed{
		Customers: []Customer{
			{1, "Nguyễn Văn An", "an.nguyen@gmail.com", "0901234567", "individual", "active", "website", 15_000_000, day(time.January, 5)},
			{2, "Trần Thị Bình", "binh.tran@minhloc.vn", "0912345678", "individual", "inactive", "referral", 0, day(time.January, 20)},
			{3, "Công ty TNHH Sâm Ngọc Linh", "contact@samngoclinh.vn", "02363888999", "business", "active", "event", 250_000_000, day(time.February, 11)},
			{4, "Lê Minh Anh", "anh.le@yahoo.com", "0987654321", "individual", "potential", "hotline", 0, day(time.March, 2)},
			{5, "Phạm Thu Hà", "ha.pham@gmail.com", "0934567890", "individual", "active", "website", 42_500_000, day(time.March, 18)},
			{6, "Công ty CP Địa ốc Phú Mỹ", "sales@phumyland.vn", "02838123456", "business", "potential", "referral", 0, day(time.April, 9)},
			{7, "Hoàng Đức Thắng", "thang.hoang@outlook.com", "0976543210", "individual", "active", "event", 8_200_000, day(time.May, 1)},
			{8, "Võ Thị Lan", "lan.vo@gmail.com", "0908765432", "individual", "inactive", "website", 1_200_000, day(time.May, 27)},
		},
		ActivityLogs: []ActivityLog{
			{1, "admin", "login", "auth", "success", "10.0.0.12", "Đăng nhập hệ thống", at(8, 0)},
			{2, "admin", "create", "customers", "success", "10.0.0.12", "Thêm khách hàng Võ Thị Lan", at(8, 15)},
			{3, "hr.manager", "update", "careers", "success", "10.0.0.31", "Cập nhật vị trí Kỹ sư phần mềm Go", at(9, 0)},
			{4, "sales01", "delete", "customers", "failed", "10.0.0.45", "Xóa khách hàng không thành công", at(9, 30)},
			{5, "hr.manager", "create", "careers", "success", "10.0.0.31", "Đăng tin Chuyên viên marketing", at(10, 10)},
			{6, "admin", "update", "roles", "success", "10.0.0.12", "Cập nhật quyền Biên tập viên", at(11, 0)},
			{7, "sales01", "login", "auth", "failed", "10.0.0.45", "Sai mật khẩu", at(13, 45)},
			{8, "admin", "logout", "auth", "success", "10.0.0.12", "Đăng xuất", at(17, 30)},
		},
		Positions: []JobPosition{
			{1, "Kỹ sư phần mềm Go", "engineering", "Hồ Chí Minh", "full-time", "open", 25_000_000, 45_000_000, 12, day(time.May, 2)},
			{2, "Chuyên viên marketing", "marketing", "Hà Nội", "full-time", "open", 15_000_000, 25_000_000, 8, day(time.May, 10)},
			{3, "Nhân viên kinh doanh BĐS", "sales", "Đà Nẵng", "full-time", "open", 10_000_000, 30_000_000, 20, day(time.April, 20)},
			{4, "Kế toán tổng hợp", "finance", "Hồ Chí Minh", "full-time", "closed", 14_000_000, 20_000_000, 15, day(time.March, 15)},
			{5, "Thực tập sinh thiết kế", "marketing", "Hà Nội", "internship", "open", 4_000_000, 6_000_000, 5, day(time.May, 20)},
			{6, "Điều phối vận hành nông trại sâm", "operations", "Kon Tum", "contract", "draft", 12_000_000, 18_000_000, 0, day(time.May, 25)},
		},
		Applications: []JobApplication{
			{1, "Đặng Quốc Bảo", "bao.dang@gmail.com", "Kỹ sư phần mềm Go", "interview", 4, 8.5, day(time.May, 5)},
			{2, "Ngô Thị Mai", "mai.ngo@gmail.com", "Chuyên viên marketing", "new", 2, 6.0, day(time.May, 12)},
			{3, "Bùi Văn Hùng", "hung.bui@gmail.com", "Nhân viên kinh doanh BĐS", "hired", 6, 9.0, day(time.April, 22)},
			{4, "Lý Thanh Tâm", "tam.ly@gmail.com", "Kỹ sư phần mềm Go", "rejected", 1, 4.5, day(time.May, 8)},
			{5, "Trịnh Hoài Nam", "nam.trinh@gmail.com", "Kế toán tổng hợp", "offered", 8, 7.5, day(time.March, 20)},
			{6, "Dương Ngọc Anh", "anh.duong@gmail.com", "Thực tập sinh thiết kế", "reviewing", 0, 7.0, day(time.May, 22)},
			{7, "Phan Minh Khoa", "khoa.phan@gmail.com", "Nhân viên kinh doanh BĐS", "interview", 3, 8.0, day(time.April, 25)},
			{8, "Huỳnh Bảo Ngọc", "ngoc.huynh@gmail.com", "Chuyên viên marketing", "reviewing", 5, 6.5, day(time.May, 14)},
		},
		Roles: []UserRole{
			{1, "Quản trị viên", "Toàn quyền hệ thống", 2, []string{"*"}, "active", time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)},
			{2, "Biên tập viên", "Quản lý nội dung và tin tức", 4, []string{"news.read", "news.write"}, "active", time.Date(2023, time.February, 15, 0, 0, 0, 0, time.UTC)},
			{3, "Nhân sự", "Quản lý tuyển dụng", 3, []string{"careers.read", "careers.write", "applications.read"}, "active", time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)},
			{4, "Kinh doanh", "Quản lý khách hàng", 6, []string{"customers.read", "customers.write"}, "active", time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC)},
			{5, "Khách", "Chỉ xem báo cáo", 0, []string{"reports.read"}, "inactive", time.Date(2023, time.June, 30, 0, 0, 0, 0, time.UTC)},
		},
	}
}

// Documents converts the seed into documents keyed by collection name.
func (s Seed) Documents() (map[string][]schema.Document, error) {
	out := make(map[string][]schema.Document, 5)
	add := func(name string, docs []schema.Document, err error) error {
		if err != nil {
			return fmt.Errorf("failed to convert %s: %w", name, err)
		}
		out[name] = docs
		return nil
	}

	customers, err := utils.StructsToDocuments(s.Customers)
	if err := add(CustomersCollection, customers, err); err != nil {
		return nil, err
	}
	logs, err := utils.StructsToDocuments(s.ActivityLogs)
	if err := add(ActivityLogsCollection, logs, err); err != nil {
		return nil, err
	}
	positions, err := utils.StructsToDocuments(s.Positions)
	if err := add(PositionsCollection, positions, err); err != nil {
		return nil, err
	}
	applications, err := utils.StructsToDocuments(s.Applications)
	if err := add(ApplicationsCollection, applications, err); err != nil {
		return nil, err
	}
	roles, err := utils.StructsToDocuments(s.Roles)
	if err := add(RolesCollection, roles, err); err != nil {
		return nil, err
	}
	return out, nil
}
